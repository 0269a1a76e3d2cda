// Package service provides business logic services for the ngsreports tool.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ngsreports/internal/config"
	"ngsreports/internal/fastqc"
	"ngsreports/internal/model"
)

const defaultConcurrency = 8

// defaultPatterns are the input globs scanned when none are configured.
var defaultPatterns = []string{"*_fastqc.zip", "*.txt"}

// FailedFile records a report file that could not be parsed.
type FailedFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// LoadResult contains the outcome of one batch parse. Reports are sorted by
// filename and Failed by path, so the result is deterministic regardless of
// parse completion order.
type LoadResult struct {
	Reports []*model.Report `json:"reports"`
	Failed  []*FailedFile   `json:"failed_files"`
}

// Loader parses report files in parallel with a bounded worker pool.
type Loader struct {
	parser      *fastqc.Parser
	concurrency int
	logger      zerolog.Logger
}

// NewLoader creates a new Loader around the given parser.
func NewLoader(parser *fastqc.Parser, cfg *config.LoadConfig, logger zerolog.Logger) *Loader {
	concurrency := defaultConcurrency
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}

	return &Loader{
		parser:      parser,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "loader").Logger(),
	}
}

// Discover lists report files under the configured input directory, matching
// each glob pattern in turn and deduplicating, sorted by path.
func (l *Loader) Discover(cfg *config.InputsConfig) ([]string, error) {
	if cfg == nil || cfg.Dir == "" {
		return nil, fmt.Errorf("no input directory configured")
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}

	seen := make(map[string]bool)
	paths := make([]string, 0)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(cfg.Dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)

	l.logger.Debug().
		Str("dir", cfg.Dir).
		Strs("patterns", patterns).
		Int("file_count", len(paths)).
		Msg("discovered input files")

	return paths, nil
}

// LoadAll parses the given report files concurrently. A file that fails to
// parse is recorded in the result and does not abort the batch; only context
// cancellation stops the run early.
func (l *Loader) LoadAll(ctx context.Context, paths []string) (*LoadResult, error) {
	l.logger.Info().Int("file_count", len(paths)).Msg("starting batch parse")

	result := &LoadResult{
		Reports: make([]*model.Report, 0, len(paths)),
		Failed:  make([]*FailedFile, 0),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	var mu sync.Mutex

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report, err := l.parser.Parse(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.Warn().
					Err(err).
					Str("path", path).
					Msg("failed to parse report, continuing with others")
				result.Failed = append(result.Failed, &FailedFile{
					Path:  path,
					Error: err.Error(),
				})
				return nil // single file failure does not abort the batch
			}
			result.Reports = append(result.Reports, report)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch parse aborted: %w", err)
	}

	sort.Slice(result.Reports, func(i, j int) bool {
		return result.Reports[i].Filename < result.Reports[j].Filename
	})
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Path < result.Failed[j].Path
	})

	l.logger.Info().
		Int("parsed", len(result.Reports)).
		Int("failed", len(result.Failed)).
		Msg("batch parse completed")

	return result, nil
}
