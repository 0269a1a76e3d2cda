package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ngsreports/internal/analysis"
	"ngsreports/internal/config"
	"ngsreports/internal/fastqc"
	"ngsreports/internal/model"
	"ngsreports/internal/report/chart"
	"ngsreports/internal/report/fasta"
	"ngsreports/internal/report/tsv"
	"ngsreports/internal/service"
)

// baseQualityModule feeds clustering, residuals, and the base quality chart.
const baseQualityModule = "Per base sequence quality"

// Command flags
var (
	exportTables          []string // Modules to export as TSV (default: all present)
	exportCount           int      // Overrepresented sequences kept in the FASTA export
	exportIncludeAdapters bool     // Keep adapter/primer hits in the FASTA export
	exportCharts          bool     // Export chart documents
	exportCluster         bool     // Export the clustering dendrogram
	exportResiduals       bool     // Export per-base quality residuals
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export [report files...]",
	Short: "Export aggregated module tables, FASTA, charts, and clustering",
	Long: `Aggregates FastQC reports and exports the underlying data:
- One TSV per module table, concatenated across files with a Filename column
- A FASTA file of overrepresented sequences
- Optionally chart documents, per-base quality residuals, and the
  clustering dendrogram as JSON

Examples:
  # Export every module table plus the FASTA file
  ngsreports export -c config.yaml -o ./export

  # Export selected tables only
  ngsreports export -c config.yaml -t "Per base sequence quality"

  # Everything, including charts, residuals, and the dendrogram
  ngsreports export -c config.yaml --charts --residuals --cluster`,
	Run: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	exportCmd.Flags().StringVarP(&modulesPath, "modules", "m", "", "module definitions file path (default: embedded definitions)")
	exportCmd.Flags().StringSliceVarP(&exportTables, "table", "t", nil, "module tables to export (default: all present)")
	exportCmd.Flags().IntVarP(&exportCount, "count", "n", 0, "overrepresented sequences kept in the FASTA export (default: config value)")
	exportCmd.Flags().BoolVar(&exportIncludeAdapters, "include-adapters", false, "keep adapter/primer hits in the FASTA export")
	exportCmd.Flags().BoolVar(&exportCharts, "charts", false, "export chart documents as JSON")
	exportCmd.Flags().BoolVar(&exportCluster, "cluster", false, "export the clustering dendrogram as JSON")
	exportCmd.Flags().BoolVar(&exportResiduals, "residuals", false, "export per-base quality residuals as TSV")
}

// runExport aggregates reports and writes the export files.
func runExport(cmd *cobra.Command, args []string) {
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
		fmt.Fprintln(os.Stderr, "❌ No report files could be parsed")
		for _, f := range loadResult.Failed {
			fmt.Fprintf(os.Stderr, "   %s: %s\n", f.Path, f.Error)
		}
		os.Exit(1)
	}

	collection, err := analysis.NewCollection(loadResult.Reports...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to build collection: %v\n", err)
		os.Exit(1)
	}

	labels, err := model.NewLabels(collection.Filenames(), cfg.Labels.StripSuffixes, cfg.Labels.Overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to derive labels: %v\n", err)
		os.Exit(1)
	}

	// Step 4: Prepare the output directory
	outputPath := resolveOutputDir(cfg)
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📄 Exporting %d reports to %s\n", collection.Len(), outputPath)
	exported := 0

	// Step 5: Module tables as TSV
	tables := exportTables
	if len(tables) == 0 {
		tables = moduleUnion(collection)
	}
	for _, module := range tables {
		table, err := analysis.GetModule(collection, module)
		if err != nil {
			if analysis.IsModuleNotFound(err) {
				fmt.Printf("   ⚠️  Skipping %q: not present in any report\n", module)
				continue
			}
			fmt.Fprintf(os.Stderr, "   ❌ %s: %v\n", module, err)
			continue
		}

		path := filepath.Join(outputPath, "qc_"+moduleSlug(module)+".tsv")
		if err := tsv.WriteFile(path, table); err != nil {
			fmt.Fprintf(os.Stderr, "   ❌ %s: %v\n", module, err)
			continue
		}
		fmt.Printf("   ✅ %s\n", path)
		exported++
	}

	// Step 6: Overrepresented sequences as FASTA
	if n := exportOverrepresented(collection, labels, cfg, outputPath); n > 0 {
		exported += n
	}

	// Step 7: Optional extras
	if exportCharts {
		exported += exportChartDocuments(collection, labels, outputPath, logger)
	}
	if exportResiduals {
		exported += exportResidualTable(collection, cfg, outputPath)
	}
	if exportCluster {
		exported += exportDendrogram(collection, cfg, outputPath)
	}

	if exported == 0 {
		fmt.Println("⚠️  Nothing was exported")
		os.Exit(1)
	}
	fmt.Printf("\n📄 Exported %d files\n", exported)
}

// exportOverrepresented writes the overrepresented sequence FASTA file.
// Returns the number of files written.
func exportOverrepresented(collection *analysis.Collection, labels model.Labels, cfg *config.Config, outputPath string) int {
	table, err := analysis.GetModule(collection, fasta.ModuleName)
	if err != nil {
		if analysis.IsModuleNotFound(err) {
			fmt.Printf("   ⚠️  Skipping FASTA export: %q not present in any report\n", fasta.ModuleName)
			return 0
		}
		fmt.Fprintf(os.Stderr, "   ❌ FASTA export: %v\n", err)
		return 0
	}

	count := exportCount
	if count <= 0 {
		count = cfg.Export.OverrepCount
	}
	opts := fasta.Options{
		Count:           count,
		ExcludeAdapters: cfg.Export.ExcludeAdapters && !exportIncludeAdapters,
	}
	sequences, err := fasta.FromTable(table, labels, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ FASTA export: %v\n", err)
		return 0
	}

	path := filepath.Join(outputPath, "qc_overrepresented.fasta")
	if err := fasta.WriteFile(path, sequences); err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ FASTA export: %v\n", err)
		return 0
	}
	fmt.Printf("   ✅ %s (%d sequences)\n", path, len(sequences))
	return 1
}

// exportChartDocuments writes one chart JSON document per quality view.
// Returns the number of files written.
func exportChartDocuments(collection *analysis.Collection, labels model.Labels, outputPath string, logger zerolog.Logger) int {
	palette := model.DefaultPalette
	written := 0

	charts := []struct {
		module  string
		expand  bool
		spec    *model.ChartSpec
		outName string
	}{
		{baseQualityModule, true, chart.BaseQualitySpec(palette), "qc_chart_base_quality.json"},
		{"Per sequence quality scores", false, chart.SequenceQualitySpec(palette), "qc_chart_sequence_quality.json"},
		{"Per sequence GC content", false, chart.GCContentSpec(palette), "qc_chart_gc_content.json"},
	}
	for _, c := range charts {
		table, err := analysis.GetModule(collection, c.module)
		if err != nil {
			if analysis.IsModuleNotFound(err) {
				fmt.Printf("   ⚠️  Skipping chart %q: not present in any report\n", c.module)
				continue
			}
			fmt.Fprintf(os.Stderr, "   ❌ Chart %s: %v\n", c.module, err)
			continue
		}
		if c.expand {
			table, err = analysis.ExpandBins(table)
			if err != nil {
				fmt.Fprintf(os.Stderr, "   ❌ Chart %s: %v\n", c.module, err)
				continue
			}
		}

		doc, err := chart.NewDocument(c.spec, table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "   ❌ Chart %s: %v\n", c.module, err)
			continue
		}
		path := filepath.Join(outputPath, c.outName)
		if err := doc.WriteFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "   ❌ Chart %s: %v\n", c.module, err)
			continue
		}
		fmt.Printf("   ✅ %s\n", path)
		written++
	}

	// Summary heatmap over the per-module verdict grid.
	doc, err := chart.NewDocument(chart.SummarySpec(palette), buildSummaryTable(collection, labels))
	if err != nil {
		logger.Warn().Err(err).Msg("summary chart failed")
		return written
	}
	path := filepath.Join(outputPath, "qc_chart_summary.json")
	if err := doc.WriteFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Summary chart: %v\n", err)
		return written
	}
	fmt.Printf("   ✅ %s\n", path)
	return written + 1
}

// exportResidualTable writes deviations from the per-position mean quality.
// Returns the number of files written.
func exportResidualTable(collection *analysis.Collection, cfg *config.Config, outputPath string) int {
	table, err := analysis.GetModule(collection, baseQualityModule)
	if err != nil {
		if analysis.IsModuleNotFound(err) {
			fmt.Printf("   ⚠️  Skipping residuals: %q not present in any report\n", baseQualityModule)
			return 0
		}
		fmt.Fprintf(os.Stderr, "   ❌ Residuals: %v\n", err)
		return 0
	}
	expanded, err := analysis.ExpandBins(table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Residuals: %v\n", err)
		return 0
	}
	residuals, err := analysis.Residuals(expanded, []string{"Mean"}, cfg.Analysis.ResidualDecimals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Residuals: %v\n", err)
		return 0
	}

	path := filepath.Join(outputPath, "qc_residuals.tsv")
	if err := tsv.WriteFile(path, residuals); err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Residuals: %v\n", err)
		return 0
	}
	fmt.Printf("   ✅ %s\n", path)
	return 1
}

// exportDendrogram clusters files on their per-base quality profile and
// writes the merge tree as JSON. Returns the number of files written.
func exportDendrogram(collection *analysis.Collection, cfg *config.Config, outputPath string) int {
	table, err := analysis.GetModule(collection, baseQualityModule)
	if err != nil {
		if analysis.IsModuleNotFound(err) {
			fmt.Printf("   ⚠️  Skipping clustering: %q not present in any report\n", baseQualityModule)
			return 0
		}
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}
	expanded, err := analysis.ExpandBins(table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}
	m, names, err := analysis.Widen(expanded, "Start", []string{"Mean"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}
	linkage, err := analysis.ParseLinkage(cfg.Cluster.Linkage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}
	dendro, err := analysis.Cluster(m, names, linkage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}

	path := filepath.Join(outputPath, "qc_clustering.json")
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dendro); err != nil {
		fmt.Fprintf(os.Stderr, "   ❌ Clustering: %v\n", err)
		return 0
	}
	fmt.Printf("   ✅ %s\n", path)
	return 1
}

// moduleUnion lists module names across the collection in document order.
func moduleUnion(collection *analysis.Collection) []string {
	seen := make(map[string]bool)
	var names []string
	for _, report := range collection.Reports() {
		for _, module := range report.ModuleNames() {
			if seen[module] {
				continue
			}
			seen[module] = true
			names = append(names, module)
		}
	}
	return names
}

// buildSummaryTable flattens per-module verdicts into a long (Filename,
// Module, Status) table for the summary heatmap.
func buildSummaryTable(collection *analysis.Collection, labels model.Labels) *model.Table {
	table := model.NewTable([]string{analysis.FilenameColumn, "Module", analysis.StatusColumn}, nil)
	for _, report := range collection.Reports() {
		name := report.Filename
		if label, ok := labels.Get(report.Filename); ok {
			name = label
		}
		for _, module := range report.ModuleNames() {
			status := report.ModuleStatus(module)
			if !status.IsValid() {
				continue
			}
			_ = table.AppendRow(
				model.StringValue(name),
				model.StringValue(module),
				model.StringValue(string(status)),
			)
		}
	}
	return table
}

// moduleSlug converts a module name into a safe filename fragment.
func moduleSlug(module string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(module) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
