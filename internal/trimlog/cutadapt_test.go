package trimlog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Test Fixtures =====

func cutadaptSELog() []string {
	return []string{
		"This is cutadapt 3.5 with Python 3.9.7",
		"Command line parameters: -a AGATCGGAAGAGC -o trimmed.fastq.gz reads.fastq.gz",
		"Processing single-end reads on 1 core ...",
		"Finished in 42.15 s (42 us/read; 1.42 M reads/minute).",
		"",
		"=== Summary ===",
		"",
		"Total reads processed:               1,000,000",
		"Reads with adapters:                    78,694 (7.9%)",
		"Reads written (passing filters):     1,000,000 (100.0%)",
		"",
		"Total basepairs processed: 1,000,000,000 bp",
		"Quality-trimmed:               1,234,567 bp (0.1%)",
		"Total written (filtered):      998,500,000 bp (99.9%)",
		"",
		"=== Adapter 1 ===",
		"",
		"Sequence: AGATCGGAAGAGC; Type: regular 3'; Length: 13; Trimmed: 78694 times",
	}
}

func cutadaptPELog() []string {
	return []string{
		"This is cutadapt 4.1 with Python 3.10.4",
		"Processing paired-end reads on 4 cores ...",
		"",
		"=== Summary ===",
		"",
		"Total read pairs processed:            513,629",
		"  Read 1 with adapter:                 106,305 (20.7%)",
		"  Read 2 with adapter:                 187,837 (36.6%)",
		"",
		"== Read fate breakdown ==",
		"Pairs that were too short:               4,876 (0.9%)",
		"Pairs written (passing filters):       508,753 (99.1%)",
		"",
		"Total basepairs processed: 103,239,429 bp",
		"  Read 1:    51,681,520 bp",
		"  Read 2:    51,557,909 bp",
		"Quality-trimmed:               1,183,818 bp (1.1%)",
		"  Read 1:       568,978 bp",
		"  Read 2:       614,840 bp",
		"Total written (filtered):    100,399,128 bp (97.2%)",
		"  Read 1:    50,286,104 bp",
		"  Read 2:    50,113,024 bp",
		"",
		"=== First read: Adapter 1 ===",
	}
}

// ===== Cutadapt Tests =====

func TestParseCutadapt_SingleEnd(t *testing.T) {
	table, err := ParseCutadapt(cutadaptSELog())
	require.NoError(t, err)

	measures, err := table.Strings("Measure")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Total reads processed",
		"Reads with adapters",
		"Reads written (passing filters)",
		"Total basepairs processed",
		"Quality-trimmed",
		"Total written (filtered)",
	}, measures)

	// thousands separators are stripped for the numeric value, kept in Raw
	total, err := table.Cell(0, "Count")
	require.NoError(t, err)
	assert.Equal(t, float64(1000000), total.Num)
	assert.Equal(t, "1,000,000", total.Raw)

	totalPct, err := table.Cell(0, "Percent")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(totalPct.Num))
	assert.Equal(t, "", totalPct.Raw)

	adapters, err := table.Cell(1, "Percent")
	require.NoError(t, err)
	assert.InDelta(t, 7.9, adapters.Num, 1e-9)

	bp, err := table.Cell(3, "Count")
	require.NoError(t, err)
	assert.Equal(t, float64(1000000000), bp.Num)
}

func TestParseCutadapt_PairedEnd(t *testing.T) {
	table, err := ParseCutadapt(cutadaptPELog())
	require.NoError(t, err)

	measures, err := table.Strings("Measure")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Total read pairs processed",
		"Read 1 with adapter",
		"Read 2 with adapter",
		"Pairs that were too short",
		"Pairs written (passing filters)",
		"Total basepairs processed",
		"Quality-trimmed",
		"Total written (filtered)",
	}, measures)

	read1, err := table.Cell(1, "Percent")
	require.NoError(t, err)
	assert.InDelta(t, 20.7, read1.Num, 1e-9)

	written, err := table.Cell(7, "Count")
	require.NoError(t, err)
	assert.Equal(t, float64(100399128), written.Num)
}

func TestParseCutadapt_NoSummary(t *testing.T) {
	_, err := ParseCutadapt([]string{
		"This is cutadapt 3.5 with Python 3.9.7",
		"Finished in 1.00 s",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no === Summary === block found")
}

func TestParseCutadapt_EmptySummary(t *testing.T) {
	_, err := ParseCutadapt([]string{
		"=== Summary ===",
		"",
		"=== Adapter 1 ===",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carries no counters")
}

func TestParseCutadapt_MalformedLine(t *testing.T) {
	_, err := ParseCutadapt([]string{
		"=== Summary ===",
		"Total reads processed:               1,000,000",
		"reads were mangled here",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognised")
	assert.Contains(t, err.Error(), "line 3")
}
