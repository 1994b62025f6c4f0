package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moviesclub/moviesclub/src/internal/domain"
)

// Sort columns that may be interpolated into ORDER BY. Anything else never
// reaches the SQL text; the service normalizes first and this map is the
// backstop.
var catalogSortColumns = map[string]string{
	"rating": "rating",
	"year":   "year",
	"name":   "name",
}

type SqliteCatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *SqliteCatalogRepo {
	return &SqliteCatalogRepo{db: db}
}

// List runs the page query and the count query under the same filter
// predicate. The secondary ORDER BY name ASC keeps equal primary keys in a
// stable order, which is what makes adjacent pages line up.
func (r *SqliteCatalogRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.CatalogMovie, int, error) {
	column, ok := catalogSortColumns[q.SortBy]
	if !ok {
		column = "year"
	}
	direction := "DESC"
	if q.SortOrder == domain.SortAsc {
		direction = "ASC"
	}

	where := ""
	var filterArgs []interface{}
	if q.Search != "" {
		where = "WHERE name LIKE ?"
		filterArgs = append(filterArgs, "%"+q.Search+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM moviesclub %s`, where)
	var totalCount int
	if err := r.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	pageQuery := fmt.Sprintf(`
		SELECT id, name, year, poster_path, overview, runtime, rating, genres
		FROM moviesclub
		%s
		ORDER BY %s %s, name ASC
		LIMIT ? OFFSET ?
	`, where, column, direction)

	args := append(append([]interface{}{}, filterArgs...), q.Limit, q.Offset())
	rows, err := r.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movies []domain.CatalogMovie
	for rows.Next() {
		var m domain.CatalogMovie
		if err := rows.Scan(&m.ID, &m.Name, &m.Year, &m.PosterPath, &m.Overview, &m.Runtime, &m.Rating, &m.Genres); err != nil {
			return nil, 0, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return movies, totalCount, nil
}

func (r *SqliteCatalogRepo) GetByID(ctx context.Context, id int64) (*domain.CatalogMovie, error) {
	query := `
		SELECT id, name, year, poster_path, overview, runtime, rating, genres
		FROM moviesclub
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var m domain.CatalogMovie
	err := row.Scan(&m.ID, &m.Name, &m.Year, &m.PosterPath, &m.Overview, &m.Runtime, &m.Rating, &m.Genres)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InitSchema exists for the ingestion job and for tests; the request path
// opens the catalog read-only and never calls it.
func (r *SqliteCatalogRepo) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS moviesclub (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			year INTEGER,
			poster_path TEXT DEFAULT '',
			overview TEXT DEFAULT '',
			runtime INTEGER DEFAULT 0,
			rating REAL DEFAULT 0,
			genres TEXT DEFAULT ''
		);
	`)
	return err
}
