// Package service provides business logic services for the ngsreports tool.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"ngsreports/internal/analysis"
	"ngsreports/internal/config"
	"ngsreports/internal/model"
)

const defaultTimezone = "UTC"

// Inspector orchestrates the complete QC workflow, coordinating batch
// parsing, classification, and result aggregation.
type Inspector struct {
	loader     *Loader
	classifier *Classifier
	config     *config.Config
	timezone   *time.Location
	version    string
	logger     zerolog.Logger
}

// InspectorOption is a functional option for configuring an Inspector.
type InspectorOption func(*Inspector)

// NewInspector creates a new Inspector with the given dependencies.
func NewInspector(
	cfg *config.Config,
	loader *Loader,
	classifier *Classifier,
	logger zerolog.Logger,
	opts ...InspectorOption,
) (*Inspector, error) {
	// Determine timezone from config or use default
	tzName := defaultTimezone
	if cfg != nil && cfg.Report.Timezone != "" {
		tzName = cfg.Report.Timezone
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}

	i := &Inspector{
		loader:     loader,
		classifier: classifier,
		config:     cfg,
		timezone:   loc,
		version:    "dev",
		logger:     logger.With().Str("component", "inspector").Logger(),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// WithVersion sets the tool version to include in the run result.
func WithVersion(version string) InspectorOption {
	return func(i *Inspector) {
		i.version = version
	}
}

// Run executes the complete QC workflow:
// 1. Parses all report files (discovered from config when paths is empty)
// 2. Builds the collection, enforcing unique filenames
// 3. Classifies each report against configured thresholds
// 4. Aggregates everything into a QCResult
func (i *Inspector) Run(ctx context.Context, paths []string) (*model.QCResult, error) {
	startTime := time.Now().In(i.timezone)
	i.logger.Info().
		Time("start_time", startTime).
		Str("timezone", i.timezone.String()).
		Msg("starting QC run")

	result := model.NewQCResult(startTime)
	result.Version = i.version

	if len(paths) == 0 {
		if i.config == nil {
			return nil, fmt.Errorf("no input files given and no configuration loaded")
		}
		discovered, err := i.loader.Discover(&i.config.Inputs)
		if err != nil {
			return nil, fmt.Errorf("discover input files: %w", err)
		}
		paths = discovered
	}

	// Step 1: parse report files
	i.logger.Debug().Int("file_count", len(paths)).Msg("step 1: parsing report files")
	loadResult, err := i.loader.LoadAll(ctx, paths)
	if err != nil {
		i.logger.Error().Err(err).Msg("batch parse failed")
		return nil, fmt.Errorf("batch parse failed: %w", err)
	}

	if len(loadResult.Reports) == 0 && len(loadResult.Failed) == 0 {
		i.logger.Warn().Msg("no report files found, completing run with empty result")
		result.Finalize(time.Now().In(i.timezone))
		return result, nil
	}

	// Step 2: build the collection; duplicate filenames are a hard error
	// because the filename is the aggregation key everywhere downstream.
	i.logger.Debug().Int("reports", len(loadResult.Reports)).Msg("step 2: building collection")
	collection, err := analysis.NewCollection(loadResult.Reports...)
	if err != nil {
		return nil, fmt.Errorf("build collection: %w", err)
	}

	// Step 3: classify reports
	i.logger.Debug().Msg("step 3: classifying reports")
	fileResults := i.classifier.ClassifyAll(collection.Reports())

	// Step 4: merge into the run result
	i.logger.Debug().Msg("step 4: building run result")
	if err := i.buildRunResult(result, collection, fileResults, loadResult.Failed); err != nil {
		return nil, err
	}

	endTime := time.Now().In(i.timezone)
	result.Finalize(endTime)

	i.logger.Info().
		Int("total_files", result.Summary.TotalFiles).
		Int("pass_files", result.Summary.PassFiles).
		Int("warn_files", result.Summary.WarnFiles).
		Int("fail_files", result.Summary.FailFiles).
		Int("failed_files", result.Summary.FailedFiles).
		Int("total_flags", result.FlagSummary.TotalFlags).
		Dur("duration", result.Duration).
		Msg("QC run completed")

	return result, nil
}

// buildRunResult merges classified files and parse failures into the result,
// applying display labels and recording the module grid order.
func (i *Inspector) buildRunResult(
	result *model.QCResult,
	collection *analysis.Collection,
	fileResults []*model.FileResult,
	failed []*FailedFile,
) error {
	var suffixes []string
	var overrides map[string]string
	if i.config != nil {
		suffixes = i.config.Labels.StripSuffixes
		overrides = i.config.Labels.Overrides
	}
	labels, err := model.NewLabels(collection.Filenames(), suffixes, overrides)
	if err != nil {
		return fmt.Errorf("derive labels: %w", err)
	}

	for _, file := range fileResults {
		if file == nil {
			continue
		}
		if label, ok := labels.Get(file.Filename); ok {
			file.Label = label
		}
		result.AddFile(file)
	}

	// Grid column order: union of module names in report document order.
	for _, report := range collection.Reports() {
		for _, module := range report.ModuleNames() {
			result.AddModule(module)
		}
	}

	for _, f := range failed {
		if f == nil {
			continue
		}
		file := model.NewFailedFileResult(f.Path, errors.New(f.Error))
		file.Filename = filepath.Base(f.Path)
		file.Label = file.Filename
		result.AddFile(file)
	}

	return nil
}

// GetTimezone returns the configured timezone.
func (i *Inspector) GetTimezone() *time.Location {
	return i.timezone
}

// GetVersion returns the configured version.
func (i *Inspector) GetVersion() string {
	return i.version
}
