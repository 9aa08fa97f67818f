package fixture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureServer(t *testing.T, status int, body []byte) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestHTTPFetcher_Success(t *testing.T) {
	srv, hits := newFixtureServer(t, http.StatusOK, loadTestdata(t))

	loader := NewLoader(NewHTTPFetcher(srv.URL+"/shifts.json", 5*time.Second), cet)
	fx, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, fx.Shifts, 4)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv, hits := newFixtureServer(t, http.StatusInternalServerError, []byte(`oops`))

	_, err := NewHTTPFetcher(srv.URL, 5*time.Second).FetchRaw(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	// 不会自动重试
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestHTTPFetcher_MalformedJSON(t *testing.T) {
	srv, _ := newFixtureServer(t, http.StatusOK, []byte(`[{"id":`))

	_, err := NewLoader(NewHTTPFetcher(srv.URL, 5*time.Second), cet).Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPFetcher_Cancelled(t *testing.T) {
	srv, _ := newFixtureServer(t, http.StatusOK, loadTestdata(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(srv.URL, 5*time.Second).FetchRaw(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_Departments(t *testing.T) {
	srv, _ := newFixtureServer(t, http.StatusOK, loadTestdata(t))

	depts, err := NewLoader(NewHTTPFetcher(srv.URL, 5*time.Second), cet).Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "Bar", depts[0].Name())
}

func TestCachedFetcher_ReadThrough(t *testing.T) {
	srv, hits := newFixtureServer(t, http.StatusOK, loadTestdata(t))
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := NewCachedFetcher(NewHTTPFetcher(srv.URL, 5*time.Second), rdb, "shift-board:fixture", time.Minute, nil)
	ctx := context.Background()

	first, err := f.FetchRaw(ctx)
	require.NoError(t, err)
	second, err := f.FetchRaw(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.True(t, mr.Exists("shift-board:fixture"))

	require.NoError(t, f.Invalidate(ctx))
	_, err = f.FetchRaw(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestCachedFetcher_Expires(t *testing.T) {
	srv, hits := newFixtureServer(t, http.StatusOK, loadTestdata(t))
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := NewCachedFetcher(NewHTTPFetcher(srv.URL, 5*time.Second), rdb, "fixture", time.Minute, nil)
	_, err := f.FetchRaw(context.Background())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = f.FetchRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestCachedFetcher_RedisDown(t *testing.T) {
	srv, hits := newFixtureServer(t, http.StatusOK, loadTestdata(t))
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	f := NewCachedFetcher(NewHTTPFetcher(srv.URL, 5*time.Second), rdb, "fixture", time.Minute, nil)
	data, err := f.FetchRaw(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestCachedFetcher_DoesNotCacheFailures(t *testing.T) {
	srv, _ := newFixtureServer(t, http.StatusNotFound, nil)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := NewCachedFetcher(NewHTTPFetcher(srv.URL, 5*time.Second), rdb, "fixture", time.Minute, nil)
	_, err := f.FetchRaw(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists("fixture"))
}
