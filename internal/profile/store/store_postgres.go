package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"dataloaders/internal/fallback"
	"dataloaders/internal/profile/models"
	"dataloaders/pkg/platform/tx"
)

// Schema creates the fixture tables LoadPostgres reads.
const Schema = `
CREATE TABLE IF NOT EXISTS profile_fixtures (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS follower_fixtures (
	id        TEXT PRIMARY KEY,
	followers TEXT NOT NULL
);
`

// OpenPostgres opens and pings a PostgreSQL connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open fixtures database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping fixtures database: %w", err)
	}
	return db, nil
}

// LoadPostgres snapshots the fixture tables into immutable static tables.
// Both tables are read in one transaction. Later changes to the database are
// not observed.
func LoadPostgres(ctx context.Context, db *sql.DB) (Fixtures, error) {
	var (
		profiles  map[string]models.Profile
		followers map[string]string
	)
	err := tx.RunReadOnly(ctx, db, func(ctx context.Context) error {
		var err error
		if profiles, err = loadProfiles(ctx, tx.QuerierFrom(ctx, db)); err != nil {
			return err
		}
		followers, err = loadFollowers(ctx, tx.QuerierFrom(ctx, db))
		return err
	})
	if err != nil {
		return Fixtures{}, err
	}
	return Fixtures{
		Profiles:  fallback.NewStaticTable(profiles),
		Followers: fallback.NewStaticTable(followers),
	}, nil
}

func loadProfiles(ctx context.Context, q tx.Querier) (map[string]models.Profile, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, image_url FROM profile_fixtures`)
	if err != nil {
		return nil, fmt.Errorf("query profile fixtures: %w", err)
	}
	defer rows.Close()

	profiles := make(map[string]models.Profile)
	for rows.Next() {
		var id string
		var p models.Profile
		if err := rows.Scan(&id, &p.Name, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan profile fixture: %w", err)
		}
		profiles[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile fixtures: %w", err)
	}
	return profiles, nil
}

func loadFollowers(ctx context.Context, q tx.Querier) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, followers FROM follower_fixtures`)
	if err != nil {
		return nil, fmt.Errorf("query follower fixtures: %w", err)
	}
	defer rows.Close()

	followers := make(map[string]string)
	for rows.Next() {
		var id, count string
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan follower fixture: %w", err)
		}
		followers[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follower fixtures: %w", err)
	}
	return followers, nil
}
