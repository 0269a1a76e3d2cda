package fastqc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	startColumn = "Start"
	endColumn   = "End"
)

// positionColumns are the column names FastQC uses to key position-based
// modules, in lookup priority order. Per-tile tables carry both Tile and
// Base, so Base is matched before the others.
var positionColumns = []string{"Base", "Position", "Length"}

var rangePattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)

// ParseRange splits a FastQC position of the form "35" or "35-36" into its
// inclusive start and end. A single position yields start == end.
func ParseRange(s string) (start, end int, err error) {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid position %q", s)
	}
	start, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", s)
	}
	end = start
	if m[2] != "" {
		end, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid position %q", s)
		}
	}
	if end < start {
		return 0, 0, fmt.Errorf("position range %q runs backwards", s)
	}
	return start, end, nil
}

// findPositionColumn returns the index of the position column, or -1.
func findPositionColumn(columns []string) int {
	for _, want := range positionColumns {
		for i, c := range columns {
			if c == want {
				return i
			}
		}
	}
	return -1
}
