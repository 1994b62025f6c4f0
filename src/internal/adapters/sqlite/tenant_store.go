package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/ports"
)

// SqliteTenantStore is one user's database file. Opened per request, closed by
// the caller on every exit path.
type SqliteTenantStore struct {
	db *sql.DB
}

// SqliteTenantOpener opens tenant stores by locator (the database file path).
type SqliteTenantOpener struct{}

func NewTenantOpener() *SqliteTenantOpener {
	return &SqliteTenantOpener{}
}

func (o *SqliteTenantOpener) Open(locator string) (ports.TenantStore, error) {
	if err := os.MkdirAll(filepath.Dir(locator), 0o755); err != nil {
		return nil, err
	}
	db, err := Open(locator)
	if err != nil {
		return nil, err
	}
	return &SqliteTenantStore{db: db}, nil
}

// InitSchema declares the tenant schema. Safe to re-run: tables are created
// only if missing and the profile seed row is inserted only when the table is
// empty, so existing rows are never reset.
func (s *SqliteTenantStore) InitSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			display_name TEXT DEFAULT '',
			bio TEXT DEFAULT '',
			moviewatchtime INTEGER DEFAULT 0,
			serieswatchtime INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS movie_list (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT UNIQUE,
			rating INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS series_list (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT,
			seasons INTEGER,
			episodes INTEGER,
			rating INTEGER
		)`,
		`INSERT INTO profile (display_name, bio, moviewatchtime, serieswatchtime)
			SELECT '', '', 0, 0
			WHERE NOT EXISTS (SELECT 1 FROM profile)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const upsertAttempts = 3

// UpsertMovieRating inserts or updates the entry for title. rating nil means
// watched but unrated and is stored as NULL.
//
// Update-then-insert, guarded by the UNIQUE(title) constraint: if two callers
// race past the update with zero rows affected, only one insert wins and the
// loser retries as an update against the winner's row.
func (s *SqliteTenantStore) UpsertMovieRating(ctx context.Context, title string, rating *int) error {
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		res, err := s.db.ExecContext(ctx,
			`UPDATE movie_list SET rating = ? WHERE title = ?`, rating, title)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n > 0 {
			return nil
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO movie_list (title, rating) VALUES (?, ?)`, title, rating)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		// Lost the insert race; retry as an update.
	}
	return fmt.Errorf("rating upsert for %q did not settle after %d attempts", title, upsertAttempts)
}

func (s *SqliteTenantStore) ListMovies(ctx context.Context) ([]domain.MovieListEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, rating FROM movie_list ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MovieListEntry
	for rows.Next() {
		var entry domain.MovieListEntry
		var rating sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.Title, &rating); err != nil {
			return nil, err
		}
		if rating.Valid {
			v := int(rating.Int64)
			entry.Rating = &v
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SqliteTenantStore) GetProfile(ctx context.Context) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT display_name, bio, moviewatchtime, serieswatchtime FROM profile LIMIT 1`)

	var p domain.Profile
	err := row.Scan(&p.DisplayName, &p.Bio, &p.MovieWatchTime, &p.SeriesWatchTime)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SqliteTenantStore) Close() error {
	return s.db.Close()
}
