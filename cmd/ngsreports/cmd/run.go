// Package cmd implements CLI commands for the ngsreports tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ngsreports/internal/config"
	"ngsreports/internal/fastqc"
	"ngsreports/internal/model"
	"ngsreports/internal/report"
	"ngsreports/internal/service"
)

// Command flags
var (
	outputDir        string   // Output directory for reports
	formats          []string // Output formats (excel, html)
	modulesPath      string   // Path to module definitions file
	htmlTemplatePath string   // Path to HTML template file (optional)
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [report files...]",
	Short: "Run QC aggregation over FastQC reports",
	Long: `Runs the complete QC aggregation workflow:
1. Parse the given FastQC reports (or scan the configured input directory)
2. Aggregate module tables across files in filename order
3. Classify each file PASS/WARN/FAIL against the configured thresholds
4. Generate Excel and HTML reports

Examples:
  # Aggregate everything in the configured input directory
  ngsreports run -c config.yaml

  # Aggregate explicit report bundles
  ngsreports run data/a_fastqc.zip data/b_fastqc.zip

  # Pick output formats and directory
  ngsreports run -c config.yaml -f excel,html -o ./reports

  # Use custom module definitions and HTML template
  ngsreports run -c config.yaml --modules custom_modules.yaml --html-template report.html`,
	Run: runQC,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Define command-specific flags
	runCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats (excel,html), comma separated")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	runCmd.Flags().StringVarP(&modulesPath, "modules", "m", "", "module definitions file path (default: embedded definitions)")
	runCmd.Flags().StringVar(&htmlTemplatePath, "html-template", "", "HTML template file path (default: embedded template)")
}

// runQC executes the complete QC aggregation workflow.
func runQC(cmd *cobra.Command, args []string) {
	// Print banner first
	printBanner()

	// Step 1: Load configuration
	configPath := GetConfigFile()
	configDisplay := configPath
	if configDisplay == "" {
		configDisplay = "built-in defaults"
	}
	fmt.Printf("📋 Loading configuration: %s\n", configDisplay)
	cfg, err := config.Load(configPath)
	if err != nil {
		// Use temporary console logger for config loading errors
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", configPath).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Step 2: Initialize logger with configuration
	// Command line --log-level overrides config file setting
	logLevel := cfg.Logging.Level
	if GetLogLevel() != "info" { // If explicitly set via command line
		logLevel = GetLogLevel()
	}
	logger := setupLogger(logLevel, cfg.Logging.Format)
	logger.Debug().
		Str("config_path", configPath).
		Str("log_level", logLevel).
		Str("log_format", cfg.Logging.Format).
		Msg("configuration loaded successfully")

	// Step 3: Load module definitions
	modulesDisplay := modulesPath
	if modulesDisplay == "" {
		modulesDisplay = "embedded defaults"
	}
	fmt.Printf("📊 Loading module definitions: %s", modulesDisplay)
	modules, err := config.LoadModules(modulesPath)
	if err != nil {
		logger.Error().Err(err).Str("path", modulesPath).Msg("failed to load module definitions")
		fmt.Fprintf(os.Stderr, "\n❌ Failed to load module definitions: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(" (%d modules, %d required)\n", len(modules), config.CountRequiredModules(modules))
	logger.Debug().Int("modules", len(modules)).Msg("module definitions loaded")

	// Step 4: Determine output settings
	outputFormats := resolveFormats(cfg)
	outputPath := resolveOutputDir(cfg)

	// Ensure output directory exists
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		logger.Error().Err(err).Str("path", outputPath).Msg("failed to create output directory")
		fmt.Fprintf(os.Stderr, "❌ Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	// Step 5: Display input source
	fmt.Println("🔬 Input reports:")
	if len(args) > 0 {
		fmt.Printf("   - %d files from the command line\n", len(args))
	} else {
		fmt.Printf("   - scanning %s\n", cfg.Inputs.Dir)
	}
	fmt.Println()

	// Step 6: Create services
	parser := fastqc.NewParser(modules, logger)
	loader := service.NewLoader(parser, &cfg.Load, logger)
	classifier := service.NewClassifier(&cfg.Thresholds, logger)
	inspector, err := service.NewInspector(cfg, loader, classifier, logger, service.WithVersion(Version))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create inspector")
		fmt.Fprintf(os.Stderr, "❌ Failed to create inspector: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("services initialized")

	// Step 7: Execute the QC run
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("⏳ Starting QC run...")
	result, err := inspector.Run(ctx, args)
	if err != nil {
		logger.Error().Err(err).Msg("QC run failed")
		fmt.Fprintf(os.Stderr, "❌ QC run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n📊 QC run completed!\n")
	printSummary(result)
	fmt.Printf("\n⏱️  Total time %.1fs\n", result.Duration.Seconds())

	// Step 8: Generate reports
	fmt.Println("\n📄 Generating reports:")
	logger.Info().
		Strs("formats", outputFormats).
		Str("output_dir", outputPath).
		Msg("starting report generation")

	timezone := inspector.GetTimezone()
	registry := report.NewRegistry(timezone, resolveHTMLTemplate(cfg))
	filenameBase := generateFilename(cfg.Report.FilenameTemplate, timezone)

	for _, format := range outputFormats {
		writer, err := registry.Get(format)
		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("unsupported format")
			fmt.Fprintf(os.Stderr, "   ❌ %v\n", err)
			continue
		}

		ext := "." + format
		if format == "excel" {
			ext = ".xlsx"
		}
		reportPath := filepath.Join(outputPath, filenameBase+ext)

		if err := writer.Write(result, reportPath); err != nil {
			logger.Error().Err(err).Str("format", format).Str("path", reportPath).Msg("failed to generate report")
			fmt.Fprintf(os.Stderr, "   ❌ %s report failed: %v\n", format, err)
			continue
		}

		logger.Info().Str("format", format).Str("path", reportPath).Msg("report generated successfully")
		fmt.Printf("   ✅ %s\n", reportPath)
	}

	// Exit with appropriate code based on QC results
	exitCode := 0
	if result.Summary != nil {
		if result.Summary.FailFiles > 0 {
			exitCode = 2
		} else if result.Summary.WarnFiles > 0 {
			exitCode = 1
		}
	}
	if exitCode > 0 {
		os.Exit(exitCode)
	}
}

// setupLogger creates a zerolog logger with the specified level and format.
func setupLogger(level string, format string) zerolog.Logger {
	// Set log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Select output format based on configuration
	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = os.Stderr
	} else {
		// Console format - human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printBanner prints the application banner.
func printBanner() {
	fmt.Printf("🔍 ngsreports %s\n", Version)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// printSummary prints the QC run summary.
func printSummary(result *model.QCResult) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if result.Summary != nil {
		fmt.Printf("   Total files: %d\n", result.Summary.TotalFiles)
		fmt.Printf("   Pass:        %d\n", result.Summary.PassFiles)
		fmt.Printf("   Warn:        %d\n", result.Summary.WarnFiles)
		fmt.Printf("   Fail:        %d\n", result.Summary.FailFiles)
		fmt.Printf("   Unparsed:    %d\n", result.Summary.FailedFiles)
	}
	fmt.Println()
	if result.FlagSummary != nil {
		fmt.Printf("   Total flags: %d\n", result.FlagSummary.TotalFlags)
		fmt.Printf("   Warn flags:  %d\n", result.FlagSummary.WarnCount)
		fmt.Printf("   Fail flags:  %d\n", result.FlagSummary.FailCount)
	}
}

// resolveFormats determines the output formats to use.
// Command line flags take precedence over config file.
func resolveFormats(cfg *config.Config) []string {
	if len(formats) > 0 {
		return formats
	}
	if len(cfg.Report.Formats) > 0 {
		return cfg.Report.Formats
	}
	return []string{"excel", "html"} // default
}

// resolveOutputDir determines the output directory to use.
// Command line flags take precedence over config file.
func resolveOutputDir(cfg *config.Config) string {
	if outputDir != "" {
		return outputDir
	}
	if cfg.Report.OutputDir != "" {
		return cfg.Report.OutputDir
	}
	return "./reports" // default
}

// resolveHTMLTemplate determines the HTML template path to use.
// Command line flags take precedence over config file.
func resolveHTMLTemplate(cfg *config.Config) string {
	if htmlTemplatePath != "" {
		return htmlTemplatePath
	}
	return cfg.Report.HTMLTemplate
}

// generateFilename creates a filename from the template.
// Supports {{.Date}} placeholder for current date.
func generateFilename(template string, tz *time.Location) string {
	if template == "" {
		template = "qc_summary_{{.Date}}"
	}

	// Get current date in the configured timezone
	now := time.Now().In(tz)
	dateStr := now.Format("2006-01-02")

	// Replace placeholders
	filename := strings.ReplaceAll(template, "{{.Date}}", dateStr)
	filename = strings.ReplaceAll(filename, "{{ .Date }}", dateStr)

	return filename
}
