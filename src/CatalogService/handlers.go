package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/moviesclub/moviesclub/src/internal/domain"
	"github.com/moviesclub/moviesclub/src/internal/middleware"
	"github.com/moviesclub/moviesclub/src/internal/services"
)

type handlers struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

func newRouter(catalog *services.CatalogService, log *zap.Logger) http.Handler {
	h := &handlers{catalog: catalog, log: log}

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics("catalog", registry)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/health", h.health)

	r.Get("/catalog/movies", h.listMovies)
	r.Get("/catalog/movies/{id}", h.getMovie)

	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"degraded": h.catalog.Degraded(),
	})
}

func (h *handlers) listMovies(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := services.NormalizeListQuery(
		params.Get("page"),
		params.Get("limit"),
		params.Get("search"),
		params.Get("sortBy"),
		params.Get("sortOrder"),
	)

	page, err := h.catalog.ListMovies(r.Context(), q)
	if errors.Is(err, services.ErrCatalogUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "catalog-unavailable")
		return
	}
	if err != nil {
		h.log.Error("failed to list movies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed-to-fetch-movies")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		// A non-numeric id cannot exist in the catalog.
		writeError(w, http.StatusNotFound, "movie-not-found")
		return
	}

	movie, err := h.catalog.GetMovie(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "movie-not-found")
		return
	}
	if errors.Is(err, services.ErrCatalogUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "catalog-unavailable")
		return
	}
	if err != nil {
		h.log.Error("failed to fetch movie", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed-to-fetch-movie")
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]interface{}{"error": code})
}
