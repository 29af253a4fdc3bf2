package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides transaction helpers over the pool.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, rolling back on error.
func (r *BaseRepository) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = r.Rollback(ctx, tx)
		return err
	}
	return r.Commit(ctx, tx)
}
