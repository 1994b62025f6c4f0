package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/ports"
)

// RatingService writes to a tenant's movie list. The tenant store is resolved
// through the registry and opened per call; it is closed on every exit path.
type RatingService struct {
	registry ports.TenantRegistry
	opener   ports.TenantStoreOpener
	log      *zap.Logger
}

func NewRatingService(registry ports.TenantRegistry, opener ports.TenantStoreOpener, log *zap.Logger) *RatingService {
	return &RatingService{registry: registry, opener: opener, log: log}
}

// RateMovie upserts the entry for title, keyed by exact title match. A nil
// rating means watched but unrated.
func (s *RatingService) RateMovie(ctx context.Context, username, title string, rating *int) error {
	store, err := s.resolveStore(ctx, username)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpsertMovieRating(ctx, title, rating); err != nil {
		return err
	}

	s.log.Info("movie rating saved",
		zap.String("username", username),
		zap.String("title", title))
	return nil
}

// ListUserMovies returns the tenant's watch list.
func (s *RatingService) ListUserMovies(ctx context.Context, username string) ([]domain.MovieListEntry, error) {
	store, err := s.resolveStore(ctx, username)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.ListMovies(ctx)
}

// resolveStore validates the username before anything derives a storage
// location from it, then consults the registry. An invalid username cannot
// have a store, so it reports the same NotFound as an unregistered one.
func (s *RatingService) resolveStore(ctx context.Context, username string) (ports.TenantStore, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, domain.ErrNotFound
	}

	locator, err := s.registry.Locate(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.opener.Open(locator)
}
