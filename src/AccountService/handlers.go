package main

import (
	"encoding/json"
	"errors"
	"net/http"

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
	accounts *services.AccountService
	ratings  *services.RatingService
	log      *zap.Logger
}

func newRouter(accounts *services.AccountService, ratings *services.RatingService, log *zap.Logger) http.Handler {
	h := &handlers{accounts: accounts, ratings: ratings, log: log}

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics("accounts", registry)
	// Registration and login are the abuse targets; the rest stays open.
	limiter := middleware.NewRateLimiter(2, 4)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/health", h.health)

	r.With(limiter.Limit).Post("/accounts", h.register)
	r.With(limiter.Limit).Post("/sessions", h.login)
	r.Get("/accounts/{username}/availability", h.availability)

	r.Post("/tenants/{username}/ratings", h.rateMovie)
	r.Get("/tenants/{username}/movies", h.listUserMovies)

	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-request")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid-request")
		return
	}

	_, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "account registered and tenant store created",
	})
}

func (h *handlers) writeRegisterError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, "invalid-username")
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		writeError(w, http.StatusBadRequest, conflict.Field+"-taken")
		return
	}

	var provisioning *domain.ProvisioningError
	if errors.As(err, &provisioning) {
		// The account row is committed; this is the inconsistency case, kept
		// distinct from a generic storage fault.
		h.log.Error("registration left an orphaned account", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "provisioning-failed")
		return
	}

	h.log.Error("registration failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal-error")
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid-request")
		return
	}

	identity, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid-credentials")
		return
	}
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal-error")
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

func (h *handlers) availability(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	available, err := h.accounts.UsernameAvailable(r.Context(), username)
	if err != nil {
		h.log.Error("availability check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal-error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"available": available})
}

func (h *handlers) rateMovie(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req struct {
		Title  string `json:"title"`
		Rating *int   `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-request")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "invalid-request")
		return
	}

	err := h.ratings.RateMovie(r.Context(), username, req.Title, req.Rating)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "tenant-not-found")
		return
	}
	if err != nil {
		h.log.Error("rating upsert failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal-error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "movie rating saved"})
}

func (h *handlers) listUserMovies(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	movies, err := h.ratings.ListUserMovies(r.Context(), username)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "tenant-not-found")
		return
	}
	if err != nil {
		h.log.Error("listing user movies failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal-error")
		return
	}

	if movies == nil {
		movies = []domain.MovieListEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"movies": movies})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]interface{}{"error": code})
}
