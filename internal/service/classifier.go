// Package service provides business logic services for the ngsreports tool.
package service

import (
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"ngsreports/internal/analysis"
	"ngsreports/internal/config"
	"ngsreports/internal/model"
)

// Module names whose verdicts are re-derived from configured thresholds
// instead of taken verbatim from the report summary.
const (
	baseQualityModule     = "Per base sequence quality"
	sequenceQualityModule = "Per sequence quality scores"
)

// Classifier derives PASS/WARN/FAIL verdicts for parsed reports. The two
// quality modules are re-scored against configured thresholds; every other
// module keeps the verdict the report itself declared.
type Classifier struct {
	thresholds *config.ThresholdsConfig
	logger     zerolog.Logger
}

// NewClassifier creates a new Classifier with the given threshold configuration.
func NewClassifier(thresholds *config.ThresholdsConfig, logger zerolog.Logger) *Classifier {
	return &Classifier{
		thresholds: thresholds,
		logger:     logger.With().Str("component", "classifier").Logger(),
	}
}

// ClassifyAll classifies every report and returns one FileResult per report,
// in the given order.
func (cl *Classifier) ClassifyAll(reports []*model.Report) []*model.FileResult {
	results := make([]*model.FileResult, 0, len(reports))
	flags := 0
	for _, report := range reports {
		if report == nil {
			continue
		}
		result := cl.ClassifyReport(report)
		results = append(results, result)
		flags += len(result.Flags)
	}

	cl.logger.Info().
		Int("files", len(results)).
		Int("flags", flags).
		Msg("classification completed")

	return results
}

// ClassifyReport classifies a single report: per-module verdicts, the
// worst-of rollup, and one flag per WARN/FAIL verdict.
func (cl *Classifier) ClassifyReport(report *model.Report) *model.FileResult {
	result := model.NewFileResult(report.Filename, report.Path)
	result.FastQCVersion = report.Version
	result.SourceFastq = report.SourceFastq()
	cl.fillBasicStats(result, report)

	for _, module := range report.ModuleNames() {
		status, flag := cl.moduleVerdict(report, module)
		result.SetStatus(module, status)
		if flag != nil {
			result.AddFlag(flag)
		}
	}

	cl.logger.Debug().
		Str("filename", report.Filename).
		Str("status", string(result.Status)).
		Int("flags", len(result.Flags)).
		Msg("report classified")

	return result
}

// moduleVerdict returns the verdict for one module plus a flag when the
// verdict is WARN or FAIL. Threshold modules fall back to the report's own
// verdict when the needed columns are absent or empty.
func (cl *Classifier) moduleVerdict(report *model.Report, module string) (model.Status, *model.QCFlag) {
	if pair := cl.thresholdFor(module); pair != nil {
		if value, ok := moduleQuality(report, module); ok {
			status := analysis.StatusFor(value, pair.Warn, pair.Fail)
			if status == model.StatusWarn || status == model.StatusFail {
				return status, model.NewThresholdFlag(report.Filename, module, status, value, pair.Warn, pair.Fail)
			}
			return status, nil
		}
		cl.logger.Debug().
			Str("filename", report.Filename).
			Str("module", module).
			Msg("quality value unavailable, keeping report verdict")
	}

	status := report.ModuleStatus(module)
	if status == model.StatusWarn || status == model.StatusFail {
		return status, model.NewQCFlag(report.Filename, module, status)
	}
	return status, nil
}

// thresholdFor returns the configured threshold pair for a module, or nil
// when the module's verdict is taken verbatim.
func (cl *Classifier) thresholdFor(module string) *config.ThresholdPair {
	if cl.thresholds == nil {
		return nil
	}
	switch module {
	case baseQualityModule:
		if cl.thresholds.BaseQuality.Warn > cl.thresholds.BaseQuality.Fail {
			return &cl.thresholds.BaseQuality
		}
	case sequenceQualityModule:
		if cl.thresholds.SequenceQuality.Warn > cl.thresholds.SequenceQuality.Fail {
			return &cl.thresholds.SequenceQuality
		}
	}
	return nil
}

// moduleQuality reduces a quality module's table to the single value the
// thresholds apply to: the mean Phred score per base position, or the
// count-weighted mean score per sequence.
func moduleQuality(report *model.Report, module string) (float64, bool) {
	section, ok := report.Module(module)
	if !ok || section.Table == nil || section.Table.NumRows() == 0 {
		return 0, false
	}
	switch module {
	case baseQualityModule:
		values, err := section.Table.Floats("Mean")
		if err != nil {
			return 0, false
		}
		return mean(values)
	case sequenceQualityModule:
		values, err := section.Table.Floats("Quality")
		if err != nil {
			return 0, false
		}
		weights, err := section.Table.Floats("Count")
		if err != nil {
			return 0, false
		}
		return weightedMean(values, weights)
	}
	return 0, false
}

// mean averages the finite values in the slice.
func mean(values []float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// weightedMean averages values weighted by the paired weights, skipping
// pairs where either side is not finite.
func weightedMean(values, weights []float64) (float64, bool) {
	if len(values) != len(weights) {
		return 0, false
	}
	var sum, total float64
	for i, v := range values {
		w := weights[i]
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		sum += v * w
		total += w
	}
	if total == 0 {
		return 0, false
	}
	return sum / total, true
}

// fillBasicStats copies the Basic Statistics measures summary reports use.
func (cl *Classifier) fillBasicStats(result *model.FileResult, report *model.Report) {
	if v, ok := report.BasicStat("Total Sequences"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			result.TotalSequences = f
		}
	}
	if v, ok := report.BasicStat("Sequence length"); ok {
		result.SequenceLength = v
	}
	if v, ok := report.BasicStat("%GC"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			result.PercentGC = f
		}
	}
	if v, ok := report.BasicStat("Encoding"); ok {
		result.Encoding = v
	}
}
