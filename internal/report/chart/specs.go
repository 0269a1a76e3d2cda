package chart

import "ngsreports/internal/model"

// BaseQualitySpec describes the per-base mean quality line chart, one series
// per report.
func BaseQualitySpec(palette model.PwfPalette) *model.ChartSpec {
	return &model.ChartSpec{
		Kind:        model.ChartKindLine,
		Title:       "Mean Sequence Quality Per Base",
		Module:      "Per base sequence quality",
		XField:      "Start",
		YField:      "Mean",
		SeriesField: "Filename",
		XLabel:      "Position in read (bp)",
		YLabel:      "Mean Quality Score (Phred)",
		YDomain:     []float64{0, 41},
		Palette:     palette,
	}
}

// SequenceQualitySpec describes the per-sequence mean quality distribution,
// one series per report.
func SequenceQualitySpec(palette model.PwfPalette) *model.ChartSpec {
	return &model.ChartSpec{
		Kind:        model.ChartKindLine,
		Title:       "Per Sequence Quality Scores",
		Module:      "Per sequence quality scores",
		XField:      "Quality",
		YField:      "Count",
		SeriesField: "Filename",
		XLabel:      "Mean Sequence Quality (Phred)",
		YLabel:      "Number of Sequences",
		Palette:     palette,
	}
}

// GCContentSpec describes the per-sequence GC content distribution, one
// series per report.
func GCContentSpec(palette model.PwfPalette) *model.ChartSpec {
	return &model.ChartSpec{
		Kind:        model.ChartKindLine,
		Title:       "Per Sequence GC Content",
		Module:      "Per sequence GC content",
		XField:      "GC Content",
		YField:      "Count",
		SeriesField: "Filename",
		XLabel:      "% GC",
		YLabel:      "Number of Sequences",
		Palette:     palette,
	}
}

// SummarySpec describes the PASS/WARN/FAIL status heatmap across reports.
// Its table is long form: one (Filename, Module, Status) row per cell.
func SummarySpec(palette model.PwfPalette) *model.ChartSpec {
	return &model.ChartSpec{
		Kind:      model.ChartKindHeatmap,
		Title:     "Summary of FastQC Status Checks",
		Module:    "Summary",
		XField:    "Filename",
		YField:    "Module",
		FillField: "Status",
		Palette:   palette,
	}
}
