package memory

import (
	"context"
	"sync"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/ports"
)

type InMemoryTenantRegistry struct {
	mu       sync.RWMutex
	locators map[string]string
}

func NewTenantRegistry() *InMemoryTenantRegistry {
	return &InMemoryTenantRegistry{locators: make(map[string]string)}
}

func (r *InMemoryTenantRegistry) Register(ctx context.Context, accountID int64, username, locator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-registering is a no-op, same as the SQL INSERT OR IGNORE.
	if _, exists := r.locators[username]; !exists {
		r.locators[username] = locator
	}
	return nil
}

func (r *InMemoryTenantRegistry) Locate(ctx context.Context, username string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locator, ok := r.locators[username]
	if !ok {
		return "", domain.ErrNotFound
	}
	return locator, nil
}

// InMemoryTenantOpener hands out shared store instances keyed by locator, so
// two "opens" of the same tenant see the same data, like two handles on one
// database file.
type InMemoryTenantOpener struct {
	mu     sync.Mutex
	stores map[string]*InMemoryTenantStore
}

func NewTenantOpener() *InMemoryTenantOpener {
	return &InMemoryTenantOpener{stores: make(map[string]*InMemoryTenantStore)}
}

func (o *InMemoryTenantOpener) Open(locator string) (ports.TenantStore, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	store, ok := o.stores[locator]
	if !ok {
		store = &InMemoryTenantStore{}
		o.stores[locator] = store
	}
	return store, nil
}

type InMemoryTenantStore struct {
	mu          sync.RWMutex
	initialized bool
	profile     domain.Profile
	movies      []domain.MovieListEntry
	series      []domain.SeriesListEntry
	nextMovieID int64
}

func (s *InMemoryTenantStore) InitSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotent: never resets rows that already exist.
	if !s.initialized {
		s.initialized = true
		s.nextMovieID = 1
	}
	return nil
}

func (s *InMemoryTenantStore) UpsertMovieRating(ctx context.Context, title string, rating *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ratingCopy *int
	if rating != nil {
		v := *rating
		ratingCopy = &v
	}

	for i := range s.movies {
		if s.movies[i].Title == title {
			s.movies[i].Rating = ratingCopy
			return nil
		}
	}
	s.movies = append(s.movies, domain.MovieListEntry{
		ID:     s.nextMovieID,
		Title:  title,
		Rating: ratingCopy,
	})
	s.nextMovieID++
	return nil
}

func (s *InMemoryTenantStore) ListMovies(ctx context.Context) ([]domain.MovieListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.MovieListEntry, len(s.movies))
	copy(entries, s.movies)
	return entries, nil
}

func (s *InMemoryTenantStore) GetProfile(ctx context.Context) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := s.profile
	return &profile, nil
}

func (s *InMemoryTenantStore) Close() error { return nil }
