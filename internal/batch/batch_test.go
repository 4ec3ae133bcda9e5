package batch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/crawler"
	githubapi "github.com/thep200/repo-profiler/internal/github_api"
	"github.com/thep200/repo-profiler/internal/model"
	"github.com/thep200/repo-profiler/internal/output"
	"github.com/thep200/repo-profiler/internal/sink"
	"github.com/thep200/repo-profiler/pkg/log"
)

const demoMeta = `{
	"full_name": "octo/demo",
	"fork": false,
	"url": "{{base}}/repos/octo/demo",
	"commits_url": "{{base}}/repos/octo/demo/commits{/sha}",
	"created_at": "2020-01-01T00:00:00Z",
	"updated_at": "2020-01-11T00:00:00Z",
	"stargazers_count": 3,
	"forks_count": 1
}`

const demoListing = `[
	{"type": "file", "name": "README.md", "download_url": "{{base}}/raw/README.md"},
	{"type": "file", "name": "app.py", "download_url": "{{base}}/raw/app.py"}
]`

const demoCommits = `[
	{"sha": "b", "commit": {"author": {"date": "2020-01-10T00:00:00Z"}}},
	{"sha": "a", "commit": {"author": {"date": "2020-01-01T00:00:00Z"}}}
]`

type githubStub struct {
	server *httptest.Server
	bodies map[string]string
	delays map[string]time.Duration

	mu   sync.Mutex
	hits map[string]int
}

func newGithubStub(t *testing.T) *githubStub {
	t.Helper()
	s := &githubStub{
		bodies: map[string]string{
			"/repos/octo/demo":          demoMeta,
			"/repos/octo/demo/contents": demoListing,
			"/repos/octo/demo/commits":  demoCommits,
			"/repos/octo/fork":          `{"full_name": "octo/fork", "fork": true, "url": "{{base}}/repos/octo/fork"}`,
			"/raw/README.md":            "# Demo\nHello\n",
			"/raw/app.py":               "# app\nprint(1)\n",
		},
		delays: map[string]time.Duration{},
		hits:   map[string]int{},
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		d := s.delays[r.URL.Path]
		s.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		body, ok := s.bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{base}}", s.server.URL)))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *githubStub) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *githubStub) delay(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[path] = d
}

func (s *githubStub) repoURL(name string) string {
	return s.server.URL + "/repos/" + name
}

type failingWriter struct{}

func (failingWriter) Write(ctx context.Context, p *model.Profile) error {
	return errors.New("disk full")
}

type fixture struct {
	batch  *Batch
	stub   *githubStub
	output string
	dir    string
}

func newFixture(t *testing.T, writer Writer) *fixture {
	t.Helper()
	stub := newGithubStub(t)
	dir := t.TempDir()

	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	require.NoError(t, err)
	config.GithubApi.BaseUrl = stub.server.URL
	config.GithubApi.RequestsPerSecond = 1000
	config.Batch.OutputPath = filepath.Join(dir, "stats.csv")

	logger := log.NewNopLogger()
	caller := githubapi.NewCaller(logger, config, nil)
	c, err := crawler.NewCrawler(logger, config, caller, nil, nil)
	require.NoError(t, err)

	if writer == nil {
		csvLog, err := output.NewCSVLog(config.Batch.OutputPath)
		require.NoError(t, err)
		writer = &sink.CSV{Log: csvLog}
	}

	b, err := NewBatch(logger, config, c, writer, nil)
	require.NoError(t, err)
	return &fixture{batch: b, stub: stub, output: config.Batch.OutputPath, dir: dir}
}

func (f *fixture) writeList(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(f.dir, "repos.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func (f *fixture) rows(t *testing.T) []string {
	t.Helper()
	raw, err := os.ReadFile(f.output)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
}

func TestRunWritesProfilesAndSkipsForks(t *testing.T) {
	f := newFixture(t, nil)
	demo := f.stub.repoURL("octo/demo")
	list := f.writeList(t, demo, "", f.stub.repoURL("octo/fork"))

	summary, err := f.batch.Run(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Forked: 1}, summary)

	rows := f.rows(t)
	require.Len(t, rows, 1)
	// repo, n_pyfiles, code_lines, comment_lines, docstring_lines, test_lines,
	// readme_lines, n_commits, commits_per_time, n_stars, n_forks
	assert.True(t, strings.HasPrefix(rows[0], demo+",1,3,1,0,0,2,2,5.000000,3,1,"), rows[0])
}

func TestRunResumesFromOutputLog(t *testing.T) {
	f := newFixture(t, nil)
	demo := f.stub.repoURL("octo/demo")
	list := f.writeList(t, demo)

	_, err := f.batch.Run(context.Background(), list)
	require.NoError(t, err)
	listingHits := f.stub.hitCount("/repos/octo/demo/contents")

	summary, err := f.batch.Run(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 1}, summary)
	assert.Equal(t, listingHits, f.stub.hitCount("/repos/octo/demo/contents"))
	assert.Equal(t, 1, f.stub.hitCount("/repos/octo/demo"))
	assert.Len(t, f.rows(t), 1)
}

func TestRunContinuesAfterMetadataFailure(t *testing.T) {
	f := newFixture(t, nil)
	list := f.writeList(t, f.stub.repoURL("octo/missing"), f.stub.repoURL("octo/demo"))

	summary, err := f.batch.Run(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Failed: 1}, summary)
	assert.Len(t, f.rows(t), 1)
}

func TestRunSkipsTimedOutRepository(t *testing.T) {
	f := newFixture(t, nil)
	f.batch.repoTimeout = 100 * time.Millisecond
	f.stub.delay("/repos/octo/demo/contents", time.Second)
	list := f.writeList(t, f.stub.repoURL("octo/demo"))

	summary, err := f.batch.Run(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, Summary{TimedOut: 1}, summary)
	assert.Empty(t, f.rows(t))
}

func TestRunWriteFailureIsNotRecorded(t *testing.T) {
	f := newFixture(t, failingWriter{})
	list := f.writeList(t, f.stub.repoURL("octo/demo"))

	summary, err := f.batch.Run(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, Summary{Failed: 1}, summary)
}

func TestRunStopsOnCancellation(t *testing.T) {
	f := newFixture(t, nil)
	list := f.writeList(t, f.stub.repoURL("octo/demo"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.batch.Run(ctx, list)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.stub.hitCount("/repos/octo/demo"))
}

func TestRunMissingList(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.batch.Run(context.Background(), filepath.Join(f.dir, "absent.txt"))
	assert.Error(t, err)
}

func TestSingle(t *testing.T) {
	f := newFixture(t, nil)

	p, err := f.batch.Single(context.Background(), "octo/demo")
	require.NoError(t, err)
	assert.Equal(t, "octo", p.User)
	assert.Equal(t, f.stub.repoURL("octo/demo"), p.URL)
	assert.Equal(t, 3, p.CodeLines)
	assert.Equal(t, 2, p.NCommits)
	assert.Empty(t, f.rows(t), "single mode does not record")
}

func TestSingleFork(t *testing.T) {
	f := newFixture(t, nil)

	p, err := f.batch.Single(context.Background(), "octo/fork")
	require.NoError(t, err)
	assert.Equal(t, "octo", p.User)
	assert.Zero(t, p.NPyFiles)
	assert.Zero(t, p.NStars)
}

func TestSingleMissingRepository(t *testing.T) {
	f := newFixture(t, nil)

	p, err := f.batch.Single(context.Background(), "octo/missing")
	assert.Error(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "octo", p.User)
}

func TestUserFromURL(t *testing.T) {
	assert.Equal(t, "psf", UserFromURL("https://api.github.com/repos/psf/requests"))
	assert.Equal(t, "psf", UserFromURL("https://api.github.com/repos/psf"))
	assert.Equal(t, "", UserFromURL("https://github.com/psf/requests"))
}

func TestReadRepoList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.txt")
	require.NoError(t, os.WriteFile(path, []byte("  a  \n\n\nb\n   \n"), 0o644))

	repos, err := ReadRepoList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, repos)
}
