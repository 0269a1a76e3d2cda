package analysis

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// ===== ParseLinkage Tests =====

func TestParseLinkage(t *testing.T) {
	tests := []struct {
		input     string
		want      Linkage
		expectErr bool
	}{
		{input: "", want: LinkageComplete},
		{input: "complete", want: LinkageComplete},
		{input: "single", want: LinkageSingle},
		{input: "average", want: LinkageAverage},
		{input: "ward", expectErr: true},
		{input: "COMPLETE", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLinkage(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ===== Cluster Tests =====

// twoGroupMatrix has two tight pairs far apart: (a,b) near the origin and
// (c,d) near (10,10).
func twoGroupMatrix() (*mat.Dense, []string) {
	m := mat.NewDense(4, 2, []float64{
		0.0, 0.0,
		0.1, 0.0,
		10.0, 10.0,
		10.1, 10.0,
	})
	return m, []string{"a_fastqc.zip", "b_fastqc.zip", "c_fastqc.zip", "d_fastqc.zip"}
}

func TestCluster_GroupsSimilarRows(t *testing.T) {
	m, names := twoGroupMatrix()

	d, err := Cluster(m, names, LinkageComplete)
	require.NoError(t, err)
	require.Len(t, d.Merges, 3)

	// the two tight pairs merge first, lowest-index pair winning the tie
	assert.Equal(t, Merge{Left: -1, Right: -2, Height: 0.1}, roundMerge(d.Merges[0]))
	assert.Equal(t, Merge{Left: -3, Right: -4, Height: 0.1}, roundMerge(d.Merges[1]))

	// the final merge joins the two clusters built in steps 1 and 2
	assert.Equal(t, 1, d.Merges[2].Left)
	assert.Equal(t, 2, d.Merges[2].Right)
	assert.InDelta(t, math.Hypot(10.1, 10.0), d.Merges[2].Height, 1e-9)

	assert.Equal(t, []string{"a_fastqc.zip", "b_fastqc.zip", "c_fastqc.zip", "d_fastqc.zip"}, d.Order)
}

func TestCluster_Deterministic(t *testing.T) {
	m, names := twoGroupMatrix()

	first, err := Cluster(m, names, LinkageComplete)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Cluster(m, names, LinkageComplete)
		require.NoError(t, err)
		assert.Equal(t, first.Order, again.Order)
		assert.Equal(t, first.Merges, again.Merges)
	}
}

func TestCluster_OrderIsPermutation(t *testing.T) {
	m, names := twoGroupMatrix()

	d, err := Cluster(m, names, LinkageAverage)
	require.NoError(t, err)

	gotSorted := append([]string(nil), d.Order...)
	wantSorted := append([]string(nil), names...)
	sort.Strings(gotSorted)
	sort.Strings(wantSorted)
	assert.Equal(t, wantSorted, gotSorted)
}

func TestCluster_TieBreaking(t *testing.T) {
	// three identical rows: every distance is zero, so index order decides
	m := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 1,
		1, 1,
	})
	names := []string{"x_fastqc.zip", "y_fastqc.zip", "z_fastqc.zip"}

	d, err := Cluster(m, names, LinkageComplete)
	require.NoError(t, err)

	assert.Equal(t, []Merge{
		{Left: -1, Right: -2, Height: 0},
		{Left: 1, Right: -3, Height: 0},
	}, d.Merges)
	assert.Equal(t, []string{"x_fastqc.zip", "y_fastqc.zip", "z_fastqc.zip"}, d.Order)
}

func TestCluster_LinkageChangesHeights(t *testing.T) {
	// three points on a line: single linkage chains at 1.5, complete reaches 3.0
	m := mat.NewDense(3, 1, []float64{0, 1.5, 3.0})
	names := []string{"a", "b", "c"}

	single, err := Cluster(m, names, LinkageSingle)
	require.NoError(t, err)
	complete, err := Cluster(m, names, LinkageComplete)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, single.Merges[1].Height, 1e-9)
	assert.InDelta(t, 3.0, complete.Merges[1].Height, 1e-9)
}

func TestCluster_SingleLeaf(t *testing.T) {
	m := mat.NewDense(1, 3, []float64{1, 2, 3})

	d, err := Cluster(m, []string{"only_fastqc.zip"}, LinkageComplete)
	require.NoError(t, err)
	assert.Empty(t, d.Merges)
	assert.Equal(t, []string{"only_fastqc.zip"}, d.Order)
}

func TestCluster_Errors(t *testing.T) {
	m := mat.NewDense(2, 1, []float64{0, 1})

	_, err := Cluster(m, []string{"a"}, LinkageComplete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matrix rows")

	_, err = Cluster(m, []string{"a", "b"}, Linkage("ward"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown linkage")

	nan := mat.NewDense(2, 1, []float64{math.NaN(), 1})
	_, err = Cluster(nan, []string{"a", "b"}, LinkageComplete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finite")
}

// roundMerge clips float noise from a merge height for exact comparison.
func roundMerge(m Merge) Merge {
	m.Height = math.Round(m.Height*1e9) / 1e9
	return m
}
