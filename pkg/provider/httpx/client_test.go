package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
)

func TestClient_GetSendsQueryAndHeaders(t *testing.T) {
	t.Parallel()

	// Arrange: a server echoing what it received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, httpx.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, []string{"a", "b"}, r.URL.Query()["deny"])
		_ = json.NewEncoder(w).Encode(map[string]string{"amount": r.URL.Query().Get("amount")})
	}))
	defer srv.Close()

	client := httpx.New(httpx.Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"x-api-key": "secret", "x-empty": ""},
	})

	// Act
	var out struct {
		Amount string `json:"amount"`
	}
	err := client.Get(t.Context(), "/quote", url.Values{"amount": {"1000"}, "deny": {"a", "b"}}, &out)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "1000", out.Amount)
}

func TestClient_PostEncodesBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		var in map[string]int
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]int{"double": in["n"] * 2})
	}))
	defer srv.Close()

	client := httpx.New(httpx.Config{BaseURL: srv.URL})

	var out map[string]int
	require.NoError(t, client.Post(t.Context(), "/build", nil, map[string]int{"n": 21}, &out))
	require.Equal(t, 42, out["double"])
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
	}))
	defer srv.Close()

	client := httpx.New(httpx.Config{BaseURL: srv.URL})
	err := client.Get(t.Context(), "/quote", nil, &struct{}{})

	// Assert: status, status text and body are all carried
	var httpErr *httpx.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	require.Equal(t, "Unprocessable Entity", httpErr.Status)
	require.Equal(t, `{"message":"no route"}`, httpErr.Body)
	require.ErrorIs(t, err, provider.ErrProviderHTTP)
	require.Equal(t, `422: Unprocessable Entity - {"message":"no route"}`, err.Error())
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	client := httpx.New(httpx.Config{BaseURL: srv.URL})
	err := client.Get(t.Context(), "/quote", nil, &struct{}{})
	require.ErrorIs(t, err, provider.ErrMalformedResponse)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := httpx.New(httpx.Config{BaseURL: srv.URL, RateLimit: 0.001, Burst: 1})

	// Assert: the first request uses the burst
	require.NoError(t, client.Get(t.Context(), "/", nil, nil))

	// Assert: the second would wait far beyond the deadline
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	err := client.Get(ctx, "/", nil, nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, provider.ErrProviderHTTP))
}
