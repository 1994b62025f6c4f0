package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/ports"
)

// ErrCatalogUnavailable is returned by every catalog operation while the
// service runs in degraded mode (catalog database could not be opened at
// startup). There is no fixture fallback; degraded is an explicit, queryable
// state.
var ErrCatalogUnavailable = errors.New("catalog storage unavailable")

const (
	defaultPage  = 1
	defaultLimit = 20
)

// NormalizeListQuery turns raw query-string values into a valid ListQuery.
// Malformed pagination input never errors; it falls back to page=1, limit=20.
// Unknown sort columns fall back to year, unknown directions to desc.
func NormalizeListQuery(page, limit, search, sortBy, sortOrder string) domain.ListQuery {
	q := domain.ListQuery{
		Page:      defaultPage,
		Limit:     defaultLimit,
		Search:    strings.TrimSpace(search),
		SortBy:    "year",
		SortOrder: domain.SortDesc,
	}

	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n >= 1 {
		q.Limit = n
	}

	switch strings.ToLower(sortBy) {
	case "rating", "year", "name":
		q.SortBy = strings.ToLower(sortBy)
	}
	switch strings.ToLower(sortOrder) {
	case string(domain.SortAsc):
		q.SortOrder = domain.SortAsc
	case string(domain.SortDesc):
		q.SortOrder = domain.SortDesc
	}

	return q
}

// CatalogService serves the shared, read-only movie catalog.
type CatalogService struct {
	repo     ports.CatalogRepository
	degraded bool
	log      *zap.Logger
}

func NewCatalogService(repo ports.CatalogRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// NewDegradedCatalogService is the startup path for allow_degraded deployments
// where the catalog database could not be opened.
func NewDegradedCatalogService(log *zap.Logger) *CatalogService {
	return &CatalogService{degraded: true, log: log}
}

// Degraded reports whether the catalog backend is unavailable.
func (s *CatalogService) Degraded() bool {
	return s.degraded
}

// ListMovies returns one page of the filtered, sorted catalog plus the count
// of everything matching the same filter.
func (s *CatalogService) ListMovies(ctx context.Context, q domain.ListQuery) (*domain.MoviePage, error) {
	if s.degraded {
		return nil, ErrCatalogUnavailable
	}

	movies, totalCount, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := (totalCount + q.Limit - 1) / q.Limit
	if movies == nil {
		movies = []domain.CatalogMovie{}
	}
	return &domain.MoviePage{
		Page:       q.Page,
		Limit:      q.Limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Movies:     movies,
	}, nil
}

func (s *CatalogService) GetMovie(ctx context.Context, id int64) (*domain.CatalogMovie, error) {
	if s.degraded {
		return nil, ErrCatalogUnavailable
	}
	return s.repo.GetByID(ctx, id)
}
