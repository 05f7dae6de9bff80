package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// Store keeps append responses in the idempotency_keys table.
type Store struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewStore creates a store. Rows older than ttl are ignored on read; a
// non-positive ttl never ignores them.
func NewStore(pool *pgxpool.Pool, ttl time.Duration) *Store {
	return &Store{pool: pool, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	builder := sq.Select("status_code", "body", "item_id").
		From("idempotency_keys").
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar)
	if s.ttl > 0 {
		builder = builder.Where(sq.Gt{"created_at": time.Now().Add(-s.ttl)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var resp ports.StoredResponse
	err = s.pool.QueryRow(ctx, query, args...).Scan(&resp.StatusCode, &resp.Body, &resp.ItemID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select idempotency key: %w", err)
	}

	return &resp, nil
}

// Save inserts the response. An existing row for key is kept.
func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	query, args, err := sq.Insert("idempotency_keys").
		Columns("key", "status_code", "body", "item_id").
		Values(key, response.StatusCode, response.Body, response.ItemID).
		Suffix("ON CONFLICT (key) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}

	return nil
}
