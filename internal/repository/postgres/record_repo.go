package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"bettercorq/internal/domain"
)

type recordRepository struct {
	DB *sql.DB
}

// NewRecordRepository returns a RecordStore backed by the records table.
func NewRecordRepository(db *sql.DB) domain.RecordStore {
	return &recordRepository{
		DB: db,
	}
}

func (r *recordRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM records WHERE key = $1`
	var value []byte
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *recordRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO records (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}

func (r *recordRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM records WHERE key = ANY($1)`, pq.Array(keys))
	return err
}
