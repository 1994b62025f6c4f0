package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/moviesclub/moviesclub/src/internal/domain"
)

type SqliteAccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *SqliteAccountRepo {
	return &SqliteAccountRepo{db: db}
}

func (r *SqliteAccountRepo) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// Create inserts the account. Both uniqueness constraints live on this one
// insert, so the violated field is read back out of the constraint error.
func (r *SqliteAccountRepo) Create(ctx context.Context, username, email, passwordHash string) (int64, error) {
	query := `
		INSERT INTO accounts (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, username, email, passwordHash, time.Now().UTC())
	if err != nil {
		switch uniqueViolationColumn(err) {
		case "accounts.username":
			return 0, &domain.ConflictError{Field: domain.ConflictUsername}
		case "accounts.email":
			return 0, &domain.ConflictError{Field: domain.ConflictEmail}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SqliteAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM accounts
		WHERE email = ?
	`
	row := r.db.QueryRowContext(ctx, query, email)

	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *SqliteAccountRepo) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `SELECT 1 FROM accounts WHERE username = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, query, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
