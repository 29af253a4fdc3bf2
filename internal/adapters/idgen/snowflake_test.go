package idgen

import (
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_NewID(t *testing.T) {
	gen, err := NewSnowflake(7)
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 500 {
		id := gen.NewID("MTR")
		require.True(t, strings.HasPrefix(id, "MTR-"), id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		parsed, err := snowflake.ParseString(strings.TrimPrefix(id, "MTR-"))
		require.NoError(t, err)
		assert.Equal(t, int64(7), parsed.Node())
	}
}

func TestSnowflake_NoPrefix(t *testing.T) {
	gen, err := NewSnowflake(1)
	require.NoError(t, err)
	assert.NotContains(t, gen.NewID(""), "-")
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	_, err := NewSnowflake(4096)
	assert.Error(t, err)
}
