package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClient_Lookup(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"name":     q.Get("name"),
			"count":    q.Get("count"),
			"language": q.Get("language"),
			"format":   q.Get("format"),
		}
		_, _ = w.Write([]byte(`{"results":[
			{"name":"Springfield","admin1":"Illinois","country":"United States","latitude":39.80172,"longitude":-89.64371,"timezone":"America/Chicago"},
			{"name":"Springfield","latitude":37.21533,"longitude":-93.29824},
			{"name":"Springfield","admin1":"Oregon","country":"United States","latitude":44.04624,"longitude":-123.02203,"timezone":""}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	results, err := client.Lookup(context.Background(), "Springfield", 20)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name": "Springfield", "count": "20", "language": "en", "format": "json",
	}, gotQuery)

	require.Len(t, results, 3)
	assert.Equal(t, "Illinois", results[0].Admin1)
	assert.Equal(t, "America/Chicago", results[0].Timezone)

	assert.Equal(t, "", results[1].Admin1)
	assert.Equal(t, "", results[1].Country)
	assert.Equal(t, "auto", results[1].Timezone)

	assert.Equal(t, "auto", results[2].Timezone)
}

func TestClient_Lookup_NoResults(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"generationtime_ms":0.5}`)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	results, err := client.Lookup(context.Background(), "Nowhereville", 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClient_Lookup_StatusError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusServiceUnavailable, `{"error":true}`)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	_, err := client.Lookup(context.Background(), "Paris", 5)

	var searchErr *SearchFailedError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, http.StatusServiceUnavailable, searchErr.Status)
	assert.Equal(t, "geocoding error: 503", err.Error())
}

func TestClient_Lookup_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"results":`)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	_, err := client.Lookup(context.Background(), "Paris", 5)
	require.Error(t, err)

	var searchErr *SearchFailedError
	assert.False(t, errors.As(err, &searchErr))
}

func TestClient_Lookup_Cache(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusOK, `{"results":[{"name":"Paris","country":"France","latitude":48.85341,"longitude":2.3488,"timezone":"Europe/Paris"}]}`)

	client := NewClient(ClientOptions{BaseURL: srv.URL, CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := client.Lookup(ctx, "Paris", 5)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := client.Lookup(ctx, "Paris", 5)
	require.NoError(t, err)
	assert.Equal(t, "Paris", second[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	_, err = client.Lookup(ctx, "Paris", 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits), "different count is a different request")
}

func TestClient_Lookup_CacheDisabled(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusOK, `{"results":[]}`)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	for i := 0; i < 3; i++ {
		_, err := client.Lookup(context.Background(), "Paris", 5)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestClient_Lookup_ErrorsAreNotCached(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusBadGateway, ``)

	client := NewClient(ClientOptions{BaseURL: srv.URL, CacheTTL: time.Minute})
	for i := 0; i < 2; i++ {
		_, err := client.Lookup(context.Background(), "Paris", 5)
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}
