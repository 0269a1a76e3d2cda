// Package config provides configuration management for the ngsreports tool.
package config

import "time"

// Config is the root configuration structure for the ngsreports tool.
type Config struct {
	Inputs     InputsConfig     `mapstructure:"inputs"`
	Load       LoadConfig       `mapstructure:"load"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Labels     LabelsConfig     `mapstructure:"labels"`
	Cluster    ClusterConfig    `mapstructure:"cluster"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Report     ReportConfig     `mapstructure:"report"`
	Export     ExportConfig     `mapstructure:"export"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// InputsConfig describes where report files are found when none are given on
// the command line.
type InputsConfig struct {
	Dir      string   `mapstructure:"dir"`
	Patterns []string `mapstructure:"patterns"` // glob patterns matched inside Dir
}

// LoadConfig contains configuration for batch parsing behaviour.
type LoadConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

// ThresholdsConfig contains quality threshold configurations.
// Polarity: higher quality values are better, so a value below Fail is a
// FAIL and Warn must be greater than Fail.
type ThresholdsConfig struct {
	BaseQuality     ThresholdPair `mapstructure:"base_quality"`     // mean per-base Phred score
	SequenceQuality ThresholdPair `mapstructure:"sequence_quality"` // count-weighted mean per-sequence quality
}

// ThresholdPair defines the warn and fail cutoffs for a quality value.
// FAIL iff value < Fail; WARN iff Fail <= value < Warn; PASS iff value >= Warn.
type ThresholdPair struct {
	Warn float64 `mapstructure:"warn" validate:"gte=0"`
	Fail float64 `mapstructure:"fail" validate:"gte=0"`
}

// LabelsConfig controls how filenames are shortened into display labels.
type LabelsConfig struct {
	StripSuffixes []string          `mapstructure:"strip_suffixes"`
	Overrides     map[string]string `mapstructure:"overrides"` // filename -> label
}

// ClusterConfig controls hierarchical clustering of samples.
type ClusterConfig struct {
	Linkage string `mapstructure:"linkage" validate:"oneof=complete single average"`
}

// AnalysisConfig contains tuning for derived tables.
type AnalysisConfig struct {
	ResidualDecimals int `mapstructure:"residual_decimals" validate:"gte=0,lte=6"`
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=excel html"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	HTMLTemplate     string   `mapstructure:"html_template"`
	Timezone         string   `mapstructure:"timezone"`
}

// ExportConfig contains configurations for the export subcommand.
type ExportConfig struct {
	OverrepCount    int  `mapstructure:"overrep_count" validate:"gte=1"` // sequences kept in FASTA export
	ExcludeAdapters bool `mapstructure:"exclude_adapters"`               // drop rows whose source names an adapter/primer
}

// FetchConfig contains HTTP client configurations for downloading remote
// report bundles.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
