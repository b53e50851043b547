package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/endlessdepth/internal/profile"
)

// ProfileRepository stores encoded profiles in PostgreSQL. It implements profile.Store.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a repository over pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Load returns every field of the profile, or profile.ErrNotFound.
func (r *ProfileRepository) Load(ctx context.Context, id string) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, value FROM profile_fields WHERE profile_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying profile %q: %w", id, err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning profile %q field: %w", id, err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profile %q: %w", id, err)
	}
	if len(kv) == 0 {
		return nil, profile.ErrNotFound
	}
	return kv, nil
}

// Save replaces the profile fields in a single transaction.
func (r *ProfileRepository) Save(ctx context.Context, id string, kv map[string]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for profile %q: %w", id, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "profile", id, "error", err)
		}
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (profile_id) VALUES ($1)
		 ON CONFLICT (profile_id) DO UPDATE SET updated_at = now()`, id); err != nil {
		return fmt.Errorf("upserting profile %q: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profile_fields WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("clearing profile %q fields: %w", id, err)
	}

	batch := &pgx.Batch{}
	for k, v := range kv {
		batch.Queue(`INSERT INTO profile_fields (profile_id, key, value) VALUES ($1, $2, $3)`, id, k, v)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting profile %q fields: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit profile %q: %w", id, err)
	}
	return nil
}

// Close is a no-op; the pool belongs to DB.
func (r *ProfileRepository) Close() error { return nil }

var _ profile.Store = (*ProfileRepository)(nil)
