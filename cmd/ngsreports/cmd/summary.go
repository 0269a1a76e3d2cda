package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ngsreports/internal/analysis"
	"ngsreports/internal/config"
	"ngsreports/internal/fastqc"
	"ngsreports/internal/model"
	"ngsreports/internal/service"
)

// summaryCluster orders the grid rows by quality profile clustering.
var summaryCluster bool

// summaryCmd represents the summary command.
var summaryCmd = &cobra.Command{
	Use:   "summary [report files...]",
	Short: "Print a PASS/WARN/FAIL status grid to the terminal",
	Long: `Parses the given FastQC reports (or scans the configured input directory)
and prints a status grid: one row per file, one column per FastQC module.

Examples:
  # Status grid for the configured input directory
  ngsreports summary -c config.yaml

  # Status grid for explicit report bundles
  ngsreports summary data/*_fastqc.zip

  # Order rows by per-base quality clustering instead of filename
  ngsreports summary -c config.yaml --cluster`,
	Run: runSummaryGrid,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().BoolVar(&summaryCluster, "cluster", false, "order rows by per-base quality clustering")
	summaryCmd.Flags().StringVarP(&modulesPath, "modules", "m", "", "module definitions file path (default: embedded definitions)")
}

// runSummaryGrid parses reports and prints the status grid.
func runSummaryGrid(cmd *cobra.Command, args []string) {
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

	// Step 3: Load module definitions and parse reports
	modules, err := config.LoadModules(modulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load module definitions: %v\n", err)
		os.Exit(1)
	}

	parser := fastqc.NewParser(modules, logger)
	loader := service.NewLoader(parser, &cfg.Load, logger)

	paths := args
	if len(paths) == 0 {
		paths, err = loader.Discover(&cfg.Inputs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to discover input files: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	loadResult, err := loader.LoadAll(ctx, paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to parse reports: %v\n", err)
		os.Exit(1)
	}
	if len(loadResult.Reports) == 0 {
		fmt.Println("⚠️  No report files could be parsed")
		for _, f := range loadResult.Failed {
			fmt.Printf("   ❌ %s: %s\n", f.Path, f.Error)
		}
		os.Exit(1)
	}

	// Step 4: Classify and label
	collection, err := analysis.NewCollection(loadResult.Reports...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to build collection: %v\n", err)
		os.Exit(1)
	}

	classifier := service.NewClassifier(&cfg.Thresholds, logger)
	fileResults := classifier.ClassifyAll(collection.Reports())

	labels, err := model.NewLabels(collection.Filenames(), cfg.Labels.StripSuffixes, cfg.Labels.Overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to derive labels: %v\n", err)
		os.Exit(1)
	}
	for _, file := range fileResults {
		if label, ok := labels.Get(file.Filename); ok {
			file.Label = label
		}
	}

	// Step 5: Determine row order, optionally by clustering
	order := collection.Filenames()
	if summaryCluster {
		clustered, err := clusterOrder(collection, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("clustering failed, keeping filename order")
			fmt.Println("⚠️  Clustering failed, keeping filename order")
		} else {
			order = clustered
		}
	}

	printStatusGrid(fileResults, order, collection)

	// List parse failures below the grid
	if len(loadResult.Failed) > 0 {
		fmt.Println()
		for _, f := range loadResult.Failed {
			fmt.Printf("⚠️  Unparsed %s: %s\n", f.Path, f.Error)
		}
	}

	summary := model.NewRunSummary(fileResults)
	fmt.Printf("\n✅ %d pass   ⚠️  %d warn   ❌ %d fail\n",
		summary.PassFiles, summary.WarnFiles, summary.FailFiles)

	if summary.FailFiles > 0 {
		os.Exit(2)
	}
	if summary.WarnFiles > 0 {
		os.Exit(1)
	}
}

// printStatusGrid renders the file-by-module status grid.
func printStatusGrid(fileResults []*model.FileResult, order []string, collection *analysis.Collection) {
	// Grid column order: union of module names in report document order.
	seen := make(map[string]bool)
	var moduleNames []string
	for _, report := range collection.Reports() {
		for _, module := range report.ModuleNames() {
			if seen[module] {
				continue
			}
			seen[module] = true
			moduleNames = append(moduleNames, module)
		}
	}

	byFilename := make(map[string]*model.FileResult, len(fileResults))
	for _, file := range fileResults {
		byFilename[file.Filename] = file
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(append([]string{"File"}, moduleNames...))

	for _, filename := range order {
		file, ok := byFilename[filename]
		if !ok {
			continue
		}
		row := []string{file.Label}
		for _, module := range moduleNames {
			status := file.Statuses[module]
			if !status.IsValid() {
				row = append(row, "-")
				continue
			}
			row = append(row, string(status))
		}
		table.Append(row)
	}

	table.Render()
}

// clusterOrder clusters files on their per-base quality profile and returns
// the leaf order.
func clusterOrder(collection *analysis.Collection, cfg *config.Config) ([]string, error) {
	table, err := analysis.GetModule(collection, baseQualityModule)
	if err != nil {
		return nil, err
	}
	expanded, err := analysis.ExpandBins(table)
	if err != nil {
		return nil, err
	}
	m, names, err := analysis.Widen(expanded, "Start", []string{"Mean"})
	if err != nil {
		return nil, err
	}
	linkage, err := analysis.ParseLinkage(cfg.Cluster.Linkage)
	if err != nil {
		return nil, err
	}
	dendro, err := analysis.Cluster(m, names, linkage)
	if err != nil {
		return nil, err
	}
	return dendro.Order, nil
}
