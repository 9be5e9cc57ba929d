// Package sqlite stores favorites in a local SQLite file, the single-user profile.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS favorites (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	region      TEXT NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	added_at    TEXT NOT NULL
);`

// Store implements favorites.Store on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn("could not enable WAL mode", "path", path, "error", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context) ([]domain.FavoriteSite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, region, category, description, image, added_at FROM favorites ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query favorites: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FavoriteSite, 0)
	for rows.Next() {
		var f domain.FavoriteSite
		var addedAt string
		if err := rows.Scan(&f.ID, &f.Name, &f.Region, &f.Category, &f.Description, &f.Image, &addedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan favorite: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
			f.AddedAt = t
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) Add(ctx context.Context, fav domain.FavoriteSite) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites(id, name, region, category, description, image, added_at)
		 VALUES(?,?,?,?,?,?,?) ON CONFLICT(id) DO NOTHING`,
		fav.ID, fav.Name, fav.Region, fav.Category, fav.Description, fav.Image,
		fav.AddedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("sqlite: insert favorite: %w", err)
	}
	return affected(res)
}

func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlite: delete favorite: %w", err)
	}
	return affected(res)
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: clear favorites: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return int(n), nil
}

// Ping reports whether the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return n > 0, nil
}
