package fastqc

import (
	"archive/zip"
	"fmt"
	"strings"

	"ngsreports/internal/model"
)

const dataEntryName = "fastqc_data.txt"

// parseZip opens a FastQC zip bundle and parses the fastqc_data.txt entry.
// FastQC writes the bundle as "<sample>_fastqc/fastqc_data.txt" alongside
// summary and image files, which are ignored here.
func (p *Parser) parseZip(path string) (*model.Report, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip bundle: %w", err)
	}
	defer zr.Close()

	entry := findDataEntry(&zr.Reader)
	if entry == nil {
		return nil, &FormatError{Path: path, Msg: "no " + dataEntryName + " entry in zip bundle"}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", entry.Name, path, err)
	}
	defer rc.Close()

	return p.ParseReader(rc, path)
}

// findDataEntry locates the report entry inside the bundle.
func findDataEntry(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if f.Name == dataEntryName || strings.HasSuffix(f.Name, "/"+dataEntryName) {
			return f
		}
	}
	return nil
}
