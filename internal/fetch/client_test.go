package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngsreports/internal/config"
)

// ===== Test Helpers =====

func testClient() *Client {
	return NewClient(&config.FetchConfig{
		Timeout: 5 * time.Second,
		Retry:   config.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond},
	}, zerolog.Nop())
}

// countingServer serves canned responses and counts requests per path.
type countingServer struct {
	mu     sync.Mutex
	counts map[string]int
	srv    *httptest.Server
}

func newCountingServer(t *testing.T, handler func(path string, attempt int, w http.ResponseWriter)) *countingServer {
	cs := &countingServer{counts: make(map[string]int)}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.counts[r.URL.Path]++
		attempt := cs.counts[r.URL.Path]
		cs.mu.Unlock()
		handler(r.URL.Path, attempt, w)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (c *countingServer) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}

// ===== Client Tests =====

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, zerolog.Nop())

	assert.Equal(t, 30*time.Second, c.timeout)
	assert.Equal(t, 3, c.retry.MaxRetries)
	assert.Equal(t, 1*time.Second, c.retry.BaseDelay)
}

func TestNewClient_CustomConfig(t *testing.T) {
	c := NewClient(&config.FetchConfig{
		Timeout: 10 * time.Second,
		Retry:   config.RetryConfig{MaxRetries: 1, BaseDelay: 10 * time.Millisecond},
	}, zerolog.Nop())

	assert.Equal(t, 10*time.Second, c.timeout)
	assert.Equal(t, 1, c.retry.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, c.retry.BaseDelay)
}

func TestClient_Fetch(t *testing.T) {
	cs := newCountingServer(t, func(path string, attempt int, w http.ResponseWriter) {
		w.Write([]byte("##FastQC\t0.11.9\n"))
	})
	dir := t.TempDir()

	dest, err := testClient().Fetch(context.Background(), cs.srv.URL+"/a_fastqc.zip", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_fastqc.zip"), dest)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "##FastQC\t0.11.9\n", string(content))
}

func TestClient_Fetch_RetriesServerErrors(t *testing.T) {
	cs := newCountingServer(t, func(path string, attempt int, w http.ResponseWriter) {
		if attempt <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	})
	dir := t.TempDir()

	dest, err := testClient().Fetch(context.Background(), cs.srv.URL+"/flaky.txt", dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cs.count("/flaky.txt"))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(content))
}

func TestClient_Fetch_NoRetryOnClientError(t *testing.T) {
	cs := newCountingServer(t, func(path string, attempt int, w http.ResponseWriter) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	dir := t.TempDir()

	_, err := testClient().Fetch(context.Background(), cs.srv.URL+"/missing.txt", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	// 4xx must not be retried
	assert.Equal(t, 1, cs.count("/missing.txt"))

	// the error body must not be left behind as a fake report
	_, statErr := os.Stat(filepath.Join(dir, "missing.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Fetch_RejectsNonBundleURL(t *testing.T) {
	_, err := testClient().Fetch(context.Background(), "http://example.com/report.pdf", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a .zip or .txt bundle")
}

// ===== FetchAll Tests =====

func TestClient_FetchAll(t *testing.T) {
	cs := newCountingServer(t, func(path string, attempt int, w http.ResponseWriter) {
		switch path {
		case "/a_fastqc.zip", "/b.txt":
			w.Write([]byte("content of " + path))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
	dir := t.TempDir()

	urls := []string{
		cs.srv.URL + "/missing.txt",
		cs.srv.URL + "/b.txt",
		cs.srv.URL + "/a_fastqc.zip",
	}

	result, err := testClient().FetchAll(context.Background(), urls, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a_fastqc.zip"),
		filepath.Join(dir, "b.txt"),
	}, result.Paths)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, cs.srv.URL+"/missing.txt", result.Failed[0].URL)
	assert.Contains(t, result.Failed[0].Error, "status 404")
}

func TestClient_FetchAll_Empty(t *testing.T) {
	result, err := testClient().FetchAll(context.Background(), nil, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Paths)
	assert.Empty(t, result.Failed)
}

func TestClient_FetchAll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient().FetchAll(ctx, []string{"http://example.com/a.txt"}, t.TempDir())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "batch download aborted")
}

// ===== URL Parsing Tests =====

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		errMsg   string
	}{
		{
			name:     "zip bundle",
			url:      "http://example.com/qc/a_fastqc.zip",
			expected: "a_fastqc.zip",
		},
		{
			name:     "text report with query",
			url:      "http://example.com/fastqc_data.txt?token=abc",
			expected: "fastqc_data.txt",
		},
		{
			name:   "no filename",
			url:    "http://example.com/",
			errMsg: "has no filename",
		},
		{
			name:   "unsupported extension",
			url:    "http://example.com/report.pdf",
			errMsg: "not a .zip or .txt bundle",
		},
		{
			name:   "unparsable",
			url:    "://bad",
			errMsg: "bad report URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := filenameFromURL(tt.url)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}
