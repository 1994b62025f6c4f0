package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/moviesclub/moviesclub/src/internal/domain"
)

// SqliteTenantRegistry maps usernames to tenant store locators. It lives in
// the central accounts database and replaces any filesystem probing: if a
// username is not registered here, the tenant store does not exist, full stop.
type SqliteTenantRegistry struct {
	db *sql.DB
}

func NewTenantRegistry(db *sql.DB) *SqliteTenantRegistry {
	return &SqliteTenantRegistry{db: db}
}

func (r *SqliteTenantRegistry) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS tenants (
			username TEXT PRIMARY KEY,
			account_id INTEGER NOT NULL,
			locator TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// Register records the tenant. INSERT OR IGNORE keeps re-provisioning of an
// existing tenant a no-op.
func (r *SqliteTenantRegistry) Register(ctx context.Context, accountID int64, username, locator string) error {
	query := `
		INSERT OR IGNORE INTO tenants (username, account_id, locator, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, username, accountID, locator, time.Now().UTC())
	return err
}

func (r *SqliteTenantRegistry) Locate(ctx context.Context, username string) (string, error) {
	query := `SELECT locator FROM tenants WHERE username = ?`
	var locator string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&locator)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return locator, nil
}
