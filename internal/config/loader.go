// Package config provides configuration management for the ngsreports tool.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment
// variables. Environment variables take precedence over file values.
// Environment variable format: NGSREPORTS_<SECTION>_<KEY>
// (e.g., NGSREPORTS_REPORT_OUTPUT_DIR).
//
// An empty configPath is allowed: defaults plus environment variables apply,
// so the tool runs without any config file on disk.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("NGSREPORTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Input defaults
	v.SetDefault("inputs.dir", ".")
	v.SetDefault("inputs.patterns", []string{"*_fastqc.zip", "*.txt"})

	// Load defaults
	v.SetDefault("load.concurrency", 8)

	// Threshold defaults follow the cutoffs FastQC itself applies to
	// per-base and per-sequence quality.
	v.SetDefault("thresholds.base_quality.warn", 25.0)
	v.SetDefault("thresholds.base_quality.fail", 20.0)
	v.SetDefault("thresholds.sequence_quality.warn", 27.0)
	v.SetDefault("thresholds.sequence_quality.fail", 20.0)

	// Label defaults
	v.SetDefault("labels.strip_suffixes", []string{
		"_fastqc.zip", "_fastqc", ".fastq.gz", ".fq.gz", ".fastq", ".fq", ".txt",
	})

	// Clustering defaults
	v.SetDefault("cluster.linkage", "complete")

	// Analysis defaults
	v.SetDefault("analysis.residual_decimals", 2)

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{"excel", "html"})
	v.SetDefault("report.filename_template", "qc_summary_{{.Date}}")
	v.SetDefault("report.timezone", "UTC")

	// Export defaults
	v.SetDefault("export.overrep_count", 10)
	v.SetDefault("export.exclude_adapters", true)

	// Fetch defaults
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.retry.max_retries", 3)
	v.SetDefault("fetch.retry.base_delay", 1*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
