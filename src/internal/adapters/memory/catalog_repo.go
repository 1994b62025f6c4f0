package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/moviesclub/moviesclub/src/internal/domain"
)

// InMemoryCatalogRepo implements the same listing semantics as the SQL repo:
// filter, sort with the name tie-break, count under the filter, then slice.
type InMemoryCatalogRepo struct {
	mu     sync.RWMutex
	movies []domain.CatalogMovie
}

func NewCatalogRepo(movies []domain.CatalogMovie) *InMemoryCatalogRepo {
	repo := &InMemoryCatalogRepo{}
	repo.movies = append(repo.movies, movies...)
	return repo
}

func (r *InMemoryCatalogRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.CatalogMovie, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.CatalogMovie
	needle := strings.ToLower(q.Search)
	for _, m := range r.movies {
		if needle == "" || strings.Contains(strings.ToLower(m.Name), needle) {
			filtered = append(filtered, m)
		}
	}
	totalCount := len(filtered)

	asc := q.SortOrder == domain.SortAsc
	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		var less, equal bool
		switch q.SortBy {
		case "rating":
			less, equal = a.Rating < b.Rating, a.Rating == b.Rating
		case "name":
			less, equal = a.Name < b.Name, a.Name == b.Name
		default:
			less, equal = a.Year < b.Year, a.Year == b.Year
		}
		if equal {
			// Secondary sort is always name ascending, whatever the direction.
			return a.Name < b.Name
		}
		if asc {
			return less
		}
		return !less
	})

	start := q.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := make([]domain.CatalogMovie, end-start)
	copy(page, filtered[start:end])
	return page, totalCount, nil
}

func (r *InMemoryCatalogRepo) GetByID(ctx context.Context, id int64) (*domain.CatalogMovie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.movies {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}
