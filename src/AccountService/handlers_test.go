package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviesclub/moviesclub/src/internal/adapters/hash"
	"github.com/moviesclub/moviesclub/src/internal/adapters/memory"
	"github.com/moviesclub/moviesclub/src/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := zaptest.NewLogger(t)
	registry := memory.NewTenantRegistry()
	opener := memory.NewTenantOpener()
	provisioner := services.NewTenantProvisioner(registry, opener, "users", log)
	accounts := services.NewAccountService(memory.NewAccountRepo(), hash.NewBcryptHasher(bcrypt.MinCost), provisioner, log)
	ratings := services.NewRatingService(registry, opener, log)

	server := httptest.NewServer(newRouter(accounts, ratings, log))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestRegistrationAndLoginEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, _ := postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "alice", "email": "bob@x.com", "password": "pw2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "username-taken", body["error"])

	resp, body = postJSON(t, server.URL+"/sessions", map[string]interface{}{
		"email": "alice@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid-credentials", body["error"])

	resp, body = postJSON(t, server.URL+"/sessions", map[string]interface{}{
		"email": "alice@x.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", body["username"])
	require.Equal(t, "alice@x.com", body["email"])
	require.Equal(t, float64(1), body["accountId"])
}

func TestRegisterRejectsInvalidUsername(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "a b", "email": "a@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid-username", body["error"])

	resp, body = postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "ok_user", "email": "", "password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid-request", body["error"])
}

func TestConflictingEmailIsAttributedToEmail(t *testing.T) {
	server := newTestServer(t)

	resp, _ := postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "bob", "email": "alice@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "email-taken", body["error"])
}

func TestAvailabilityEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/accounts/alice/availability")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["available"])

	resp, _ = postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = getJSON(t, server.URL+"/accounts/alice/availability")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["available"])
}

func TestRatingEndpoints(t *testing.T) {
	server := newTestServer(t)

	// No tenant store yet.
	resp, body := postJSON(t, server.URL+"/tenants/ghost/ratings", map[string]interface{}{
		"title": "Inception", "rating": 7,
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "tenant-not-found", body["error"])

	resp, _ = postJSON(t, server.URL+"/accounts", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = postJSON(t, server.URL+"/tenants/alice/ratings", map[string]interface{}{
		"title": "Inception", "rating": 7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Explicit null rating: watched but unrated.
	resp, _ = postJSON(t, server.URL+"/tenants/alice/ratings", map[string]interface{}{
		"title": "Arrival", "rating": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = getJSON(t, server.URL+"/tenants/alice/movies")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	movies, ok := body["movies"].([]interface{})
	require.True(t, ok)
	require.Len(t, movies, 2)

	ratings := make(map[string]interface{})
	for _, raw := range movies {
		entry := raw.(map[string]interface{})
		ratings[entry["title"].(string)] = entry["rating"]
	}
	require.Equal(t, float64(7), ratings["Inception"])
	require.Nil(t, ratings["Arrival"])
}

func TestRatingRequiresTitle(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/tenants/alice/ratings", map[string]interface{}{
		"rating": 5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid-request", body["error"])
}
