package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "legalos.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Read(ctx, "sasingian_clients")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.Write(ctx, "sasingian_clients", []byte(`[{"id":"CLT-1"}]`)))
	require.NoError(t, s.Write(ctx, "sasingian_clients", []byte(`[{"id":"CLT-2"},{"id":"CLT-1"}]`)))

	got, err := s.Read(ctx, "sasingian_clients")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"CLT-2"},{"id":"CLT-1"}]`, string(got))
}

func TestStore_WriteMany(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.WriteMany(ctx, map[string][]byte{
		"sasingian_invoices": []byte(`[{"id":"INV-1"}]`),
		"sasingian_tasks":    []byte(`[{"id":"MTR-1"}]`),
	}))

	for key, want := range map[string]string{
		"sasingian_invoices": `[{"id":"INV-1"}]`,
		"sasingian_tasks":    `[{"id":"MTR-1"}]`,
	} {
		got, err := s.Read(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, want, string(got))
	}
}

func TestStore_WriteManyCancelled(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteMany(ctx, map[string][]byte{"sasingian_tasks": []byte(`[]`)})
	require.Error(t, err)

	_, err = s.Read(context.Background(), "sasingian_tasks")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
