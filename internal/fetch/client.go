// Package fetch downloads remote FastQC report bundles over HTTP.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ngsreports/internal/config"
)

// fetchConcurrency limits parallel downloads in a batch.
const fetchConcurrency = 4

// Client downloads FastQC report bundles (.zip or .txt) into a local
// directory so a QC run can be pointed at a facility's hosted output.
type Client struct {
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// NewClient creates a new report download client.
func NewClient(cfg *config.FetchConfig, logger zerolog.Logger) *Client {
	// Set default timeout if not specified
	timeout := 30 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	// Set default retry config if not specified
	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if cfg != nil && cfg.Retry != (config.RetryConfig{}) {
		retry = cfg.Retry
	}

	// Create resty client
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	return &Client{
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "fetch").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	// Retry on error (timeout, connection failure, etc.)
	if err != nil {
		return true
	}

	// Retry on 5xx server errors
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}

	// Do not retry on 4xx client errors
	return false
}

// FailedFetch records one URL that could not be downloaded.
type FailedFetch struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// FetchResult holds the local paths of downloaded bundles plus the per-URL
// failures of the batch.
type FetchResult struct {
	Paths  []string
	Failed []*FailedFetch
}

// Fetch downloads one report URL into destDir and returns the local path.
func (c *Client) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	name, err := filenameFromURL(rawURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create input directory: %w", err)
	}
	dest := filepath.Join(destDir, name)

	c.logger.Debug().
		Str("url", rawURL).
		Str("dest", dest).
		Msg("downloading report bundle")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		// the output file holds the error body, not a report
		os.Remove(dest)
		return "", fmt.Errorf("download %s returned status %d", rawURL, resp.StatusCode())
	}

	c.logger.Info().
		Str("url", rawURL).
		Str("dest", dest).
		Msg("report bundle downloaded")

	return dest, nil
}

// FetchAll downloads every URL into destDir. A failed download is recorded
// and does not abort the batch.
func (c *Client) FetchAll(ctx context.Context, urls []string, destDir string) (*FetchResult, error) {
	c.logger.Info().
		Int("urls", len(urls)).
		Str("dest", destDir).
		Msg("starting batch download")

	result := &FetchResult{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, rawURL := range urls {
		rawURL := rawURL
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dest, err := c.Fetch(ctx, rawURL, destDir)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn().
					Err(err).
					Str("url", rawURL).
					Msg("download failed, continuing with others")
				result.Failed = append(result.Failed, &FailedFetch{URL: rawURL, Error: err.Error()})
				return nil // single download failure does not abort the batch
			}
			result.Paths = append(result.Paths, dest)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch download aborted: %w", err)
	}

	sort.Strings(result.Paths)
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].URL < result.Failed[j].URL
	})

	c.logger.Info().
		Int("downloaded", len(result.Paths)).
		Int("failed", len(result.Failed)).
		Msg("batch download completed")

	return result, nil
}

// filenameFromURL derives the local filename from the URL path. Only .zip
// and .txt names are accepted, anything else is not a report bundle.
func filenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("bad report URL %q: %w", rawURL, err)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("report URL %q has no filename", rawURL)
	}
	if !strings.HasSuffix(name, ".zip") && !strings.HasSuffix(name, ".txt") {
		return "", fmt.Errorf("report URL %q is not a .zip or .txt bundle", rawURL)
	}
	return name, nil
}
