package repositories

import (
	"context"
)

// KVReader reads a persisted collection by its key.
type KVReader interface {
	// Read returns the stored bytes for key, or an error wrapping
	// apperrors.ErrNotFound when nothing has been stored under it yet.
	Read(ctx context.Context, key string) ([]byte, error)
}

// KVWriter replaces stored collections.
type KVWriter interface {
	// Write replaces the value stored under key.
	Write(ctx context.Context, key string, value []byte) error

	// WriteMany replaces several keys as a unit: either every value is
	// stored or none is.
	WriteMany(ctx context.Context, entries map[string][]byte) error
}

// KVStore is the persistence medium behind the entity store. Each key holds
// one whole collection serialized as JSON.
type KVStore interface {
	KVReader
	KVWriter

	// Close releases any resources held by the backend.
	Close() error
}
