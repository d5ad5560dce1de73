package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoAttachesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Store.SetTokens("acc-token", "ref-token")

	var out map[string]bool
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/articles", nil, &out))
	assert.Equal(t, "Bearer acc-token", gotAuth)
	assert.True(t, out["ok"])
}

func TestDoRefreshesOnceOn401(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "old-refresh", body["refresh"])
			_ = json.NewEncoder(w).Encode(map[string]string{"access": "new-access", "refresh": "new-refresh"})
		default:
			if r.Header.Get("Authorization") != "Bearer new-access" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Token expired"}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Store.SetTokens("stale-access", "old-refresh")

	var out map[string]bool
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/prayers", nil, &out))
	assert.True(t, out["ok"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))

	access, refresh := c.Store.Tokens()
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
}

func TestDoGivesUpAfterFailedRefresh(t *testing.T) {
	var apiCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
			return
		}
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token expired"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Store.SetTokens("stale", "dead-refresh")

	err := c.Do(context.Background(), http.MethodGet, "/api/messages", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	// one original call, no retry after refresh failed
	assert.Equal(t, int32(1), atomic.LoadInt32(&apiCalls))

	access, refresh := c.Store.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestDoSingleRetryOnPersistent401(t *testing.T) {
	var apiCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			_ = json.NewEncoder(w).Encode(map[string]string{"access": "a2", "refresh": "r2"})
			return
		}
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token expired"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Store.SetTokens("a1", "r1")

	err := c.Do(context.Background(), http.MethodGet, "/api/messages", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), atomic.LoadInt32(&apiCalls))
}

func TestDoWithoutRefreshTokenFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEqual(t, "/api/auth/refresh", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"No token provided"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	err := c.Do(context.Background(), http.MethodGet, "/api/messages", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDoSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Article not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Store.SetTokens("a", "r")

	err := c.Do(context.Background(), http.MethodGet, "/api/articles/9", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Article not found", apiErr.Message)
}

func TestLoginStoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user":    map[string]any{"id": 1, "email": "a@b.c", "name": "A"},
			"access":  "tok-a",
			"refresh": "tok-r",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.User.ID)

	access, refresh := c.Store.Tokens()
	assert.Equal(t, "tok-a", access)
	assert.Equal(t, "tok-r", refresh)
}
