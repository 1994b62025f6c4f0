package ports

import (
	"context"

	"github.com/moviesclub/moviesclub/src/internal/domain"
)

type AccountRepository interface {
	// Create inserts a new account and returns its id. Uniqueness violations
	// come back as *domain.ConflictError with the offending field set.
	Create(ctx context.Context, username, email, passwordHash string) (int64, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// TenantRegistry maps usernames to tenant store locators. It is the only
// source of truth for "does this user have a store". Nothing probes the
// filesystem directly.
type TenantRegistry interface {
	Register(ctx context.Context, accountID int64, username, locator string) error
	Locate(ctx context.Context, username string) (string, error)
}

// TenantStore is one user's isolated store, opened per request. Callers must
// Close on every exit path.
type TenantStore interface {
	InitSchema() error
	UpsertMovieRating(ctx context.Context, title string, rating *int) error
	ListMovies(ctx context.Context) ([]domain.MovieListEntry, error)
	GetProfile(ctx context.Context) (*domain.Profile, error)
	Close() error
}

// TenantStoreOpener opens the store behind a registry locator.
type TenantStoreOpener interface {
	Open(locator string) (TenantStore, error)
}

type CatalogRepository interface {
	// List returns one page plus the total count under the same filter.
	List(ctx context.Context, q domain.ListQuery) ([]domain.CatalogMovie, int, error)
	GetByID(ctx context.Context, id int64) (*domain.CatalogMovie, error)
}

// PasswordHasher is the opaque one-way-hash collaborator. Compare returns nil
// on a match and an error otherwise.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) error
}
