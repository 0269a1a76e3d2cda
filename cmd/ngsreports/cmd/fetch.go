package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ngsreports/internal/config"
	"ngsreports/internal/fetch"
)

// fetchDest is the destination directory for downloaded bundles.
var fetchDest string

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download FastQC report bundles over HTTP",
	Long: `Downloads FastQC report bundles (.zip or .txt) into the input directory
so they can be aggregated with run, summary, or export.

Examples:
  # Download into the configured input directory
  ngsreports fetch https://example.org/qc/a_fastqc.zip

  # Download several bundles into an explicit directory
  ngsreports fetch -d ./fastqc https://example.org/qc/a_fastqc.zip https://example.org/qc/b_fastqc.zip`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchDest, "dest", "d", "", "destination directory (default: configured input directory)")
}

// runFetch downloads the given report bundle URLs.
func runFetch(cmd *cobra.Command, args []string) {
	// Step 1: Load configuration
	configPath := GetConfigFile()
	cfg, err := config.Load(configPath)
	if err != nil {
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", configPath).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Step 2: Initialize logger
	logLevel := cfg.Logging.Level
	if GetLogLevel() != "info" {
		logLevel = GetLogLevel()
	}
	logger := setupLogger(logLevel, cfg.Logging.Format)

	// Step 3: Determine destination directory
	dest := fetchDest
	if dest == "" {
		dest = cfg.Inputs.Dir
	}
	if dest == "" {
		dest = "./fastqc"
	}

	// Step 4: Download
	client := fetch.NewClient(&cfg.Fetch, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("⏳ Downloading %d report bundles to %s\n", len(args), dest)
	result, err := client.FetchAll(ctx, args, dest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Download failed: %v\n", err)
		os.Exit(1)
	}

	for _, path := range result.Paths {
		fmt.Printf("   ✅ %s\n", path)
	}
	for _, failed := range result.Failed {
		fmt.Printf("   ❌ %s: %s\n", failed.URL, failed.Error)
	}

	fmt.Printf("\n📄 Downloaded %d of %d bundles\n", len(result.Paths), len(args))
	if len(result.Paths) == 0 {
		os.Exit(1)
	}
}
