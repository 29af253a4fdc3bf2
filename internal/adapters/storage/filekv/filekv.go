package filekv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Store keeps each key in its own JSON file under a directory. Writes go to
// a temporary file in the same directory and are renamed into place.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates the directory if needed and returns a store rooted at it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

var _ portsrepo.KVStore = (*Store)(nil)

func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: invalid storage key %q", apperrors.ErrValidation, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return raw, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	return s.WriteMany(ctx, map[string][]byte{key: value})
}

// WriteMany stages every value in a temporary file before renaming any of
// them, so a failed stage leaves all keys untouched.
func (s *Store) WriteMany(ctx context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type staged struct{ tmp, dst string }
	var files []staged
	cleanup := func() {
		for _, f := range files {
			_ = os.Remove(f.tmp)
		}
	}

	for key, value := range entries {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		dst, err := s.path(key)
		if err != nil {
			cleanup()
			return err
		}
		tmp, err := writeTemp(s.dir, key, value)
		if err != nil {
			cleanup()
			return fmt.Errorf("stage %s: %w", key, err)
		}
		files = append(files, staged{tmp: tmp, dst: dst})
	}

	for i, f := range files {
		if err := os.Rename(f.tmp, f.dst); err != nil {
			for _, rest := range files[i:] {
				_ = os.Remove(rest.tmp)
			}
			return fmt.Errorf("commit %s: %w", f.dst, err)
		}
	}
	return nil
}

func writeTemp(dir, key string, value []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+key+"-*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (s *Store) Close() error { return nil }
