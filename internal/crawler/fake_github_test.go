package crawler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/extract"
	githubapi "github.com/thep200/repo-profiler/internal/github_api"
	"github.com/thep200/repo-profiler/pkg/log"
)

// route is one canned response of the fake API, {{base}} in body is replaced by the server url
type route struct {
	status int
	body   string
	delay  time.Duration
}

type fakeGithub struct {
	server *httptest.Server
	routes map[string]route

	mu   sync.Mutex
	hits map[string]int
}

func newFakeGithub(t *testing.T, routes map[string]route) *fakeGithub {
	t.Helper()
	f := &fakeGithub{routes: routes, hits: make(map[string]int)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGithub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	rt, ok := f.routes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if rt.delay > 0 {
		select {
		case <-time.After(rt.delay):
		case <-r.Context().Done():
			return
		}
	}
	if rt.status != 0 {
		w.WriteHeader(rt.status)
	}
	_, _ = w.Write([]byte(strings.ReplaceAll(rt.body, "{{base}}", f.server.URL)))
}

func (f *fakeGithub) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeGithub) url(path string) string {
	return f.server.URL + path
}

func newTestCrawler(t *testing.T, f *fakeGithub, style extract.StyleChecker) *Crawler {
	t.Helper()
	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	require.NoError(t, err)
	config.GithubApi.BaseUrl = f.server.URL
	config.GithubApi.RequestsPerSecond = 1000

	caller := githubapi.NewCaller(log.NewNopLogger(), config, nil)
	c, err := NewCrawler(log.NewNopLogger(), config, caller, style, nil)
	require.NoError(t, err)
	return c
}

const repoMeta = `{
	"full_name": "octo/demo",
	"fork": false,
	"url": "{{base}}/repos/octo/demo",
	"commits_url": "{{base}}/repos/octo/demo/commits{/sha}",
	"created_at": "2020-01-01T10:00:00Z",
	"updated_at": "2020-01-21T08:30:00Z",
	"stargazers_count": 42,
	"forks_count": 7
}`

const commitsBody = `[
	{"sha": "c3", "commit": {"author": {"date": "2020-01-20T12:00:00Z"}}},
	{"sha": "c2", "commit": {"author": {"date": "2020-01-10T09:00:00Z"}}},
	{"sha": "c1", "commit": {"author": {"date": "2020-01-01T11:00:00Z"}}},
	{"sha": "c0", "commit": {"author": {"date": "2020-01-01T10:00:00Z"}}}
]`

// main.py: 10 lines, two of them comments
const mainPy = "import os\n# resolve paths\nBASE = os.getcwd()\n\n\ndef run():\n    # entry point\n    return BASE\n\nrun()"

// test_main.py: 5 lines with an assert
const testMainPy = "from main import run\n\n\ndef test_run():\n    assert run()"
