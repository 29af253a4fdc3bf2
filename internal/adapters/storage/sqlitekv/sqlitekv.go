package sqlitekv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one stored collection.
type Entry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// Store persists collections as rows of a single SQLite table.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the table.
// Use ":memory:" or a "file::memory:" DSN for a throwaway database.
func Open(path string, logMode bool) (*Store, error) {
	if filepath.Dir(path) != "." && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	gormLogger := logger.Default
	if !logMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Store{db: db}, nil
}

var _ portsrepo.KVStore = (*Store)(nil)

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(e.Value), nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	return upsert(s.db.WithContext(ctx), key, value)
}

func (s *Store) WriteMany(ctx context.Context, entries map[string][]byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			if err := upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(db *gorm.DB, key string, value []byte) error {
	e := Entry{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
