package fastqc

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBundle writes a zip file with the given entries and returns its path.
func writeBundle(t *testing.T, name string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for entryName, content := range entries {
		w, err := zw.Create(entryName)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// ===== Zip Bundle Tests =====

func TestParser_Parse_ZipBundle(t *testing.T) {
	parser := newTestParser(t)

	path := writeBundle(t, "sample2_fastqc.zip", map[string]string{
		"sample2_fastqc/fastqc_data.txt":             sampleReport(),
		"sample2_fastqc/summary.txt":                 "PASS\tBasic Statistics\tsample2.fastq.gz\n",
		"sample2_fastqc/fastqc_report.html":          "<html></html>",
		"sample2_fastqc/Images/per_base_quality.png": "not really a png",
	})

	rep, err := parser.Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "sample2_fastqc.zip", rep.Filename)
	assert.Equal(t, path, rep.Path)
	assert.Equal(t, "0.11.9", rep.Version)
	assert.Equal(t, "sample1.fastq.gz", rep.SourceFastq())
	assert.Len(t, rep.Sections, 6)
}

func TestParser_Parse_ZipBundle_FlatEntry(t *testing.T) {
	parser := newTestParser(t)

	path := writeBundle(t, "flat.zip", map[string]string{
		"fastqc_data.txt": sampleReport(),
	})

	rep, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "flat.zip", rep.Filename)
}

func TestParser_Parse_ZipBundle_UppercaseExtension(t *testing.T) {
	parser := newTestParser(t)

	path := writeBundle(t, "sample3_fastqc.ZIP", map[string]string{
		"sample3_fastqc/fastqc_data.txt": sampleReport(),
	})

	rep, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "sample3_fastqc.ZIP", rep.Filename)
}

func TestParser_Parse_ZipBundle_MissingDataEntry(t *testing.T) {
	parser := newTestParser(t)

	path := writeBundle(t, "empty_fastqc.zip", map[string]string{
		"empty_fastqc/summary.txt": "PASS\tBasic Statistics\tempty.fastq.gz\n",
	})

	_, err := parser.Parse(path)
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, path, fe.Path)
	assert.Contains(t, fe.Error(), "no fastqc_data.txt entry")
}

func TestParser_Parse_ZipBundle_NotAZip(t *testing.T) {
	parser := newTestParser(t)

	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("plain text, no zip magic"), 0o644))

	_, err := parser.Parse(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open zip bundle")
}

func TestParser_Parse_ZipBundle_MalformedInnerReport(t *testing.T) {
	parser := newTestParser(t)

	path := writeBundle(t, "bad_fastqc.zip", map[string]string{
		"bad_fastqc/fastqc_data.txt": "not a fastqc report\n",
	})

	_, err := parser.Parse(path)
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	// errors point at the bundle on disk, not the inner entry name
	assert.Equal(t, path, fe.Path)
}
