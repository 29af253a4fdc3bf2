package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
)

// Storage keys for each persisted collection.
const (
	KeyMatters     = "sasingian_tasks"
	KeyExpenses    = "sasingian_expenses"
	KeyTimeEntries = "sasingian_time"
	KeyInvoices    = "sasingian_invoices"
	KeyEvents      = "sasingian_events"
	KeyClients     = "sasingian_clients"
	KeySession     = "sasingian_auth"
)

// AllKeys lists every persisted key in load order.
var AllKeys = []string{KeyMatters, KeyExpenses, KeyTimeEntries, KeyInvoices, KeyEvents, KeyClients, KeySession}

// errNoChange lets an Update callback skip persistence when nothing changed.
var errNoChange = errors.New("no change")

// Snapshot is a copy of every collection. Mutations made through
// EntityStore.Update operate on a Snapshot and are swapped in only after
// they have been persisted.
type Snapshot struct {
	Matters     []domain.Matter
	Expenses    []domain.Expense
	TimeEntries []domain.TimeEntry
	Invoices    []domain.Invoice
	Events      []domain.CalendarEvent
	Clients     []domain.Client
	Session     domain.Session
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Matters:     slices.Clone(s.Matters),
		Expenses:    slices.Clone(s.Expenses),
		TimeEntries: slices.Clone(s.TimeEntries),
		Invoices:    slices.Clone(s.Invoices),
		Events:      slices.Clone(s.Events),
		Clients:     slices.Clone(s.Clients),
		Session:     s.Session,
	}
	if s.Session.User != nil {
		user := *s.Session.User
		out.Session.User = &user
	}
	return out
}

// MatterIndex returns the position of the matter with id, or -1.
func (s *Snapshot) MatterIndex(id string) int {
	return slices.IndexFunc(s.Matters, func(m domain.Matter) bool { return m.ID == id })
}

// InvoiceIndex returns the position of the invoice with id, or -1.
func (s *Snapshot) InvoiceIndex(id string) int {
	return slices.IndexFunc(s.Invoices, func(i domain.Invoice) bool { return i.ID == id })
}

// CollectionLoad describes how one key was loaded at startup.
type CollectionLoad struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Err   error  `json:"-"`
}

// LoadReport summarizes Load. Collections that failed to read or decode
// appear with a non-nil Err and were started empty.
type LoadReport struct {
	Collections []CollectionLoad
}

// Failed returns the collections that could not be restored.
func (r LoadReport) Failed() []CollectionLoad {
	var out []CollectionLoad
	for _, c := range r.Collections {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// EntityStore owns the in-memory collections and persists each mutated
// collection in full through the KV store.
type EntityStore struct {
	mu       sync.RWMutex
	kv       portsrepo.KVStore
	validate *validator.Validate
	state    Snapshot
	// unreadable holds keys whose stored value could not be read at load.
	// They are never written so the stored copy survives until a reload.
	unreadable map[string]error
}

// NewEntityStore creates an empty store. Call Load to restore persisted state.
func NewEntityStore(kv portsrepo.KVStore, validate *validator.Validate) *EntityStore {
	return &EntityStore{kv: kv, validate: validate}
}

// Load restores every collection. Absent keys start empty. Keys that cannot
// be read, decoded or validated also start empty and are reported; Load
// itself never fails.
func (s *EntityStore) Load(ctx context.Context) LoadReport {
	logger := (&BaseService{}).GetLogger(ctx)
	var (
		next       Snapshot
		report     LoadReport
		unreadable = map[string]error{}
	)

	for _, key := range AllKeys {
		entry := CollectionLoad{Key: key}
		raw, err := s.kv.Read(ctx, key)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
		case err != nil:
			entry.Err = fmt.Errorf("read %s: %w", key, err)
			unreadable[key] = entry.Err
		default:
			entry.Count, entry.Err = s.decodeInto(&next, key, raw)
		}
		if entry.Err != nil {
			logger.Warn("Starting collection empty", slog.String("key", key), slog.String("error", entry.Err.Error()))
		}
		report.Collections = append(report.Collections, entry)
	}

	s.mu.Lock()
	s.state = next
	s.unreadable = unreadable
	s.mu.Unlock()

	logger.Info("Entity store loaded", slog.Int("matters", len(next.Matters)), slog.Int("invoices", len(next.Invoices)))
	return report
}

func (s *EntityStore) decodeInto(snap *Snapshot, key string, raw []byte) (int, error) {
	var (
		n   int
		err error
	)
	switch key {
	case KeyMatters:
		snap.Matters, err = decodeCollection[domain.Matter](raw, s.validate)
		n = len(snap.Matters)
	case KeyExpenses:
		snap.Expenses, err = decodeCollection[domain.Expense](raw, s.validate)
		n = len(snap.Expenses)
	case KeyTimeEntries:
		snap.TimeEntries, err = decodeCollection[domain.TimeEntry](raw, s.validate)
		n = len(snap.TimeEntries)
	case KeyInvoices:
		snap.Invoices, err = decodeCollection[domain.Invoice](raw, s.validate)
		n = len(snap.Invoices)
	case KeyEvents:
		snap.Events, err = decodeCollection[domain.CalendarEvent](raw, s.validate)
		n = len(snap.Events)
	case KeyClients:
		snap.Clients, err = decodeCollection[domain.Client](raw, s.validate)
		n = len(snap.Clients)
	case KeySession:
		var session domain.Session
		if err = json.Unmarshal(raw, &session); err == nil {
			snap.Session = session
			n = 1
		} else {
			err = fmt.Errorf("%w: %s: %v", apperrors.ErrCorruptCollection, key, err)
		}
	}
	return n, err
}

func decodeCollection[T any](raw []byte, v *validator.Validate) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptCollection, err)
	}
	if v != nil {
		for i := range items {
			if err := v.Struct(items[i]); err != nil {
				return nil, fmt.Errorf("%w: item %d: %v", apperrors.ErrCorruptCollection, i, err)
			}
		}
	}
	return items, nil
}

// Snapshot returns a copy of the current collections.
func (s *EntityStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Read calls fn with the live collections under a read lock. fn must not
// retain or modify them.
func (s *EntityStore) Read(fn func(*Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// Update applies fn to a copy of the collections, persists the collections
// named in keys, and only then makes the copy current. If fn or the write
// fails, the current collections are left untouched. Keys that could not be
// read at load are refused.
func (s *EntityStore) Update(ctx context.Context, keys []string, fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if err, ok := s.unreadable[key]; ok {
			return fmt.Errorf("%w: %s was not loaded, refusing to overwrite it: %v", apperrors.ErrInternal, key, err)
		}
	}

	next := s.state.clone()
	if err := fn(&next); err != nil {
		return err
	}

	entries := make(map[string][]byte, len(keys))
	for _, key := range keys {
		raw, err := encodeKey(&next, key)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = raw
	}

	var err error
	if len(entries) == 1 {
		for key, raw := range entries {
			err = s.kv.Write(ctx, key, raw)
		}
	} else if len(entries) > 1 {
		err = s.kv.WriteMany(ctx, entries)
	}
	if err != nil {
		return fmt.Errorf("persist %v: %w", keys, err)
	}

	s.state = next
	return nil
}

func encodeKey(snap *Snapshot, key string) ([]byte, error) {
	switch key {
	case KeyMatters:
		return encodeCollection(snap.Matters)
	case KeyExpenses:
		return encodeCollection(snap.Expenses)
	case KeyTimeEntries:
		return encodeCollection(snap.TimeEntries)
	case KeyInvoices:
		return encodeCollection(snap.Invoices)
	case KeyEvents:
		return encodeCollection(snap.Events)
	case KeyClients:
		return encodeCollection(snap.Clients)
	case KeySession:
		return json.Marshal(snap.Session)
	}
	return nil, fmt.Errorf("unknown key %q", key)
}

func encodeCollection[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
