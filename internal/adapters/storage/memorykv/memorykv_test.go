package memorykv

import (
	"context"
	"testing"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Read(ctx, "sasingian_tasks")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	value := []byte(`[{"id":"MTR-1"}]`)
	require.NoError(t, s.Write(ctx, "sasingian_tasks", value))
	value[2] = 'X'

	got, err := s.Read(ctx, "sasingian_tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"MTR-1"}]`, string(got))
}

func TestStore_WriteMany(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.WriteMany(ctx, map[string][]byte{
		"sasingian_invoices": []byte(`[]`),
		"sasingian_time":     []byte(`[]`),
	}))
	assert.Equal(t, []string{"sasingian_invoices", "sasingian_time"}, s.Keys())
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New()
	assert.Error(t, s.Write(ctx, "k", []byte(`[]`)))
	assert.Empty(t, s.Keys())
}
