package githubapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/metrics"
	"github.com/thep200/repo-profiler/pkg/log"
)

func testConfig(t *testing.T, baseURL string) *cfg.Config {
	t.Helper()
	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	require.NoError(t, err)
	config.GithubApi.BaseUrl = baseURL
	return config
}

// dropConnection closes the connection without writing a response
func dropConnection(t *testing.T, w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	require.True(t, ok)
	conn, _, err := hj.Hijack()
	require.NoError(t, err)
	_ = conn.Close()
}

func TestGetSendsCredentialsAndPreviewHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "octocat", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, cfg.DefaultAcceptHeader, r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"fork": false}`))
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.GithubApi.Username = "octocat"
	config.GithubApi.AccessToken = "s3cret"
	caller := NewCaller(log.NewNopLogger(), config, nil)

	resp, err := caller.Get(context.Background(), server.URL+"/repos/a/b")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"fork": false}`, resp.Text())
}

func TestGetUsesTokenWithoutUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token abc", r.Header.Get("Authorization"))
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.GithubApi.AccessToken = "abc"
	caller := NewCaller(log.NewNopLogger(), config, nil)

	_, err := caller.Get(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestGetRetriesTransportFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			dropConnection(t, w)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	m := metrics.New()
	caller := NewCaller(log.NewNopLogger(), testConfig(t, server.URL), m)

	resp, err := caller.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		dropConnection(t, w)
	}))
	defer server.Close()

	caller := NewCaller(log.NewNopLogger(), testConfig(t, server.URL), nil)

	resp, err := caller.Get(context.Background(), server.URL)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrNoResponse))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetReturnsNonOKResponse(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	caller := NewCaller(log.NewNopLogger(), testConfig(t, server.URL), nil)

	resp, err := caller.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var v map[string]interface{}
	err = caller.GetJSON(context.Background(), server.URL, &v)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.EqualError(t, err, "cannot receive response from "+server.URL+": status 403")
}

func TestGetStopsOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	caller := NewCaller(log.NewNopLogger(), testConfig(t, server.URL), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := caller.Get(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepoAPIURL(t *testing.T) {
	caller := NewCaller(log.NewNopLogger(), testConfig(t, "https://api.github.com/"), nil)
	assert.Equal(t, "https://api.github.com/repos/psf/requests", caller.RepoAPIURL("psf/requests"))
}

func TestNilResponseIsNotOK(t *testing.T) {
	var r *Response
	assert.False(t, r.OK())
}
