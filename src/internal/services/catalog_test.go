package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/moviesclub/moviesclub/src/internal/adapters/memory"
	"github.com/moviesclub/moviesclub/src/internal/domain"
)

func TestNormalizeListQueryDefaults(t *testing.T) {
	t.Parallel()

	q := NormalizeListQuery("", "", "", "", "")
	require.Equal(t, 1, q.Page)
	require.Equal(t, 20, q.Limit)
	require.Equal(t, "", q.Search)
	require.Equal(t, "year", q.SortBy)
	require.Equal(t, domain.SortDesc, q.SortOrder)
}

func TestNormalizeListQueryMalformedInputFallsBackSilently(t *testing.T) {
	t.Parallel()

	cases := []struct{ page, limit string }{
		{"abc", "xyz"},
		{"-3", "0"},
		{"0", "-1"},
		{"1.5", "2.7"},
	}
	for _, c := range cases {
		q := NormalizeListQuery(c.page, c.limit, "", "", "")
		require.Equal(t, 1, q.Page, "page %q", c.page)
		require.Equal(t, 20, q.Limit, "limit %q", c.limit)
	}

	q := NormalizeListQuery("3", "50", "", "popularity", "sideways")
	require.Equal(t, 3, q.Page)
	require.Equal(t, 50, q.Limit)
	require.Equal(t, "year", q.SortBy)
	require.Equal(t, domain.SortDesc, q.SortOrder)
	require.Equal(t, 100, q.Offset())
}

func TestNormalizeListQueryTrimsSearch(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", NormalizeListQuery("", "", "   ", "", "").Search)
	require.Equal(t, "dune", NormalizeListQuery("", "", "  dune ", "", "").Search)
}

func seedCatalogService(t *testing.T, n int) *CatalogService {
	t.Helper()

	movies := make([]domain.CatalogMovie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, domain.CatalogMovie{
			ID:     int64(i),
			Name:   fmt.Sprintf("Movie %02d", i),
			Year:   2000 + i%5,
			Rating: float64(i % 10),
		})
	}
	return NewCatalogService(memory.NewCatalogRepo(movies), zaptest.NewLogger(t))
}

func TestListMoviesEnvelope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := seedCatalogService(t, 25)

	page, err := svc.ListMovies(ctx, NormalizeListQuery("2", "10", "", "name", "asc"))
	require.NoError(t, err)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 10, page.Limit)
	require.Equal(t, 25, page.TotalCount)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Movies, 10)
}

func TestBlankSearchEqualsNoSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := seedCatalogService(t, 25)

	none, err := svc.ListMovies(ctx, NormalizeListQuery("1", "20", "", "", ""))
	require.NoError(t, err)
	empty, err := svc.ListMovies(ctx, NormalizeListQuery("1", "20", "", "", ""))
	require.NoError(t, err)
	blank, err := svc.ListMovies(ctx, NormalizeListQuery("1", "20", "   ", "", ""))
	require.NoError(t, err)

	require.Equal(t, none.TotalCount, empty.TotalCount)
	require.Equal(t, none.TotalCount, blank.TotalCount)
}

func TestListMoviesLastPageShortAndBeyond(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := seedCatalogService(t, 25)

	last, err := svc.ListMovies(ctx, NormalizeListQuery("3", "10", "", "", ""))
	require.NoError(t, err)
	require.Len(t, last.Movies, 5)

	beyond, err := svc.ListMovies(ctx, NormalizeListQuery("4", "10", "", "", ""))
	require.NoError(t, err)
	require.Empty(t, beyond.Movies)
	require.Equal(t, 25, beyond.TotalCount)
}

func TestDegradedCatalogIsExplicit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewDegradedCatalogService(zaptest.NewLogger(t))

	require.True(t, svc.Degraded())

	_, err := svc.ListMovies(ctx, NormalizeListQuery("1", "20", "", "", ""))
	require.ErrorIs(t, err, ErrCatalogUnavailable)

	_, err = svc.GetMovie(ctx, 1)
	require.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestGetMovie(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := seedCatalogService(t, 5)

	movie, err := svc.GetMovie(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "Movie 03", movie.Name)

	_, err = svc.GetMovie(ctx, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
