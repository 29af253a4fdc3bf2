package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/storage/memorykv"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// sequentialIDs hands out PREFIX-1, PREFIX-2, ...
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

var _ portsrepo.IDGenerator = (*sequentialIDs)(nil)

// --- Mock KVStore ---
type MockKVStore struct {
	mock.Mock
}

func (m *MockKVStore) Read(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKVStore) Write(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKVStore) WriteMany(ctx context.Context, entries map[string][]byte) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockKVStore) Close() error {
	return m.Called().Error(0)
}

var _ portsrepo.KVStore = (*MockKVStore)(nil)

// --- Mock Classifier ---
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.Classification, error) {
	args := m.Called(ctx, narrative, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Classification), args.Error(1)
}

var _ portsrepo.Classifier = (*MockClassifier)(nil)

// --- Mock CalendarSyncer ---
type MockCalendarSyncer struct {
	mock.Mock
}

func (m *MockCalendarSyncer) PushEvent(ctx context.Context, event domain.CalendarEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

var _ portsrepo.CalendarSyncer = (*MockCalendarSyncer)(nil)

// newMemoryStore returns a loaded entity store over a fresh in-memory KV.
func newMemoryStore(t *testing.T) (*services.EntityStore, *memorykv.Store) {
	t.Helper()
	kv := memorykv.New()
	store := services.NewEntityStore(kv, validation.New())
	report := store.Load(context.Background())
	require.Empty(t, report.Failed())
	return store, kv
}
