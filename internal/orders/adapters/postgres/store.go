package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejobratic/sharedorders/internal/database"
	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

const table = "kv_store"

// Store keeps each list as a JSONB document in one kv_store row.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func getQuery(key string) (string, []any, error) {
	return sq.Select("value").
		From(table).
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func upsertQuery(key string, value []byte) (string, []any, error) {
	return sq.Insert(table).
		Columns("key", "value", "updated_at").
		Values(key, string(value), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func (s *Store) GetList(ctx context.Context, key string) ([]domain.OrderItem, error) {
	query, args, err := getQuery(key)
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var raw []byte
	err = s.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.OrderItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ports.ErrUnavailable, table, err)
	}

	items, err := domain.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	return items, nil
}

func (s *Store) SetList(ctx context.Context, key string, items []domain.OrderItem) error {
	raw, err := domain.EncodeList(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	query, args, err := upsertQuery(key, raw)
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ports.ErrUnavailable, table, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := database.CheckHealth(ctx, s.pool); err != nil {
		return fmt.Errorf("%w: postgres ping: %v", ports.ErrUnavailable, err)
	}
	return nil
}
