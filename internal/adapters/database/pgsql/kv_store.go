package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionTables maps collection keys to their row-per-record tables.
// Keys not listed here are stored whole in app_documents.
var CollectionTables = map[string]string{
	"sasingian_tasks":    "tasks",
	"sasingian_expenses": "expenses",
	"sasingian_time":     "time_entries",
	"sasingian_invoices": "invoices",
	"sasingian_events":   "calendar_events",
	"sasingian_clients":  "clients",
}

// KVStore stores each collection as one row per record, keyed by the
// record's id and ordered by its position in the collection.
type KVStore struct {
	BaseRepository
	tables map[string]string
}

// NewKVStore creates a store over an already migrated database.
func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{BaseRepository: BaseRepository{Pool: pool}, tables: CollectionTables}
}

var _ portsrepo.KVStore = (*KVStore)(nil)

func (s *KVStore) Read(ctx context.Context, key string) ([]byte, error) {
	table, ok := s.tables[key]
	if !ok {
		return s.readDocument(ctx, key)
	}

	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`SELECT payload FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	payloads, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	items := make([]json.RawMessage, len(payloads))
	for i, p := range payloads {
		items[i] = p
	}
	return json.Marshal(items)
}

func (s *KVStore) readDocument(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.Pool.QueryRow(ctx, `SELECT payload FROM app_documents WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", key, err)
	}
	return payload, nil
}

func (s *KVStore) Write(ctx context.Context, key string, value []byte) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return s.write(ctx, tx, key, value)
	})
}

func (s *KVStore) WriteMany(ctx context.Context, entries map[string][]byte) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, key := range slices.Sorted(maps.Keys(entries)) {
			if err := s.write(ctx, tx, key, entries[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *KVStore) write(ctx context.Context, tx pgx.Tx, key string, value []byte) error {
	table, ok := s.tables[key]
	if !ok {
		_, err := tx.Exec(ctx, `
            INSERT INTO app_documents (key, payload, updated_at)
            VALUES ($1, $2, NOW())
            ON CONFLICT (key) DO UPDATE SET
                payload = EXCLUDED.payload,
                updated_at = EXCLUDED.updated_at;
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to write document %s: %w", key, err)
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return fmt.Errorf("%w: %s is not a JSON array: %v", apperrors.ErrValidation, key, err)
	}

	ids := make([]string, 0, len(items))
	upsert := fmt.Sprintf(`
        INSERT INTO %s (id, position, payload, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (id) DO UPDATE SET
            position = EXCLUDED.position,
            payload = EXCLUDED.payload,
            updated_at = EXCLUDED.updated_at;
    `, table)
	for pos, item := range items {
		var rec struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &rec); err != nil || rec.ID == "" {
			return fmt.Errorf("%w: record %d of %s has no id", apperrors.ErrValidation, pos, key)
		}
		if _, err := tx.Exec(ctx, upsert, rec.ID, pos, []byte(item)); err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", table, rec.ID, err)
		}
		ids = append(ids, rec.ID)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE NOT (id = ANY($1))`, table), ids); err != nil {
		return fmt.Errorf("failed to prune %s: %w", table, err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *KVStore) Close() error { return nil }
