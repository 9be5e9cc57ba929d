// Package postgres stores favorites in PostgreSQL for shared deployments.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS favorites (
	position    BIGSERIAL,
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	region      TEXT NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	added_at    TIMESTAMPTZ NOT NULL
)`

// Store implements favorites.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against databaseURL, verifies it and applies the schema.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) List(ctx context.Context) ([]domain.FavoriteSite, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, region, category, description, image, added_at FROM favorites ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query favorites: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FavoriteSite, 0)
	for rows.Next() {
		var f domain.FavoriteSite
		if err := rows.Scan(&f.ID, &f.Name, &f.Region, &f.Category, &f.Description, &f.Image, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan favorite: %w", err)
		}
		f.AddedAt = f.AddedAt.UTC()
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate favorites: %w", err)
	}
	return out, nil
}

func (s *Store) Add(ctx context.Context, fav domain.FavoriteSite) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (id, name, region, category, description, image, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
		fav.ID, fav.Name, fav.Region, fav.Category, fav.Description, fav.Image, fav.AddedAt)
	if err != nil {
		return false, fmt.Errorf("postgres: insert favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("postgres: delete favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM favorites`)
	if err != nil {
		return 0, fmt.Errorf("postgres: clear favorites: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Ping checks the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
