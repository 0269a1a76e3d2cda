// Package cmd provides CLI commands for the ngsreports tool.
package cmd

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Global flags
var (
	cfgFile  string // Config file path
	logLevel string // Log level
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ngsreports",
	Short: "FastQC aggregation tool for quality control across sequencing runs",
	Long: `ngsreports parses FastQC report bundles and aggregates their module
tables into cross-file quality control summaries.

Data flow: FastQC output (.zip / fastqc_data.txt) → parser → aggregation →
threshold classification → Excel/HTML reports

Main features:
  - Parse FastQC text reports and zip bundles into typed module tables
  - Aggregate module tables across files in deterministic filename order
  - Classify files PASS/WARN/FAIL against configurable quality thresholds
  - Generate Excel and HTML reports plus TSV/FASTA/chart exports`,
	Version: Version,
	// Run displays help when called without any subcommands
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Customize version template
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// GetConfigFile returns the config file path from command line flag.
// When the flag was left at its default and no config.yaml exists, an empty
// path is returned so the loader applies defaults plus environment variables.
func GetConfigFile() string {
	if !rootCmd.PersistentFlags().Changed("config") {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return ""
		}
	}
	return cfgFile
}

// GetLogLevel returns the log level from command line flag.
func GetLogLevel() string {
	return logLevel
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return Version + "\n" +
		"Build Time: " + BuildTime + "\n" +
		"Git Commit: " + GitCommit + "\n" +
		"Go Version: " + runtime.Version() + "\n" +
		"OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH
}
