package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linkage selects how the distance between a merged cluster and the rest is
// updated during agglomeration.
type Linkage string

const (
	LinkageComplete Linkage = "complete"
	LinkageSingle   Linkage = "single"
	LinkageAverage  Linkage = "average"
)

// ParseLinkage validates a linkage name, defaulting empty to complete.
func ParseLinkage(s string) (Linkage, error) {
	switch Linkage(s) {
	case "":
		return LinkageComplete, nil
	case LinkageComplete, LinkageSingle, LinkageAverage:
		return Linkage(s), nil
	default:
		return "", fmt.Errorf("unknown linkage %q", s)
	}
}

// Merge is one agglomeration step. Negative indexes refer to original leaves
// (leaf i appears as -(i+1)); positive indexes refer to the cluster built by
// that earlier 1-based step. This is the classic hclust merge encoding, so
// the tree can be handed to an external dendrogram renderer as-is.
type Merge struct {
	Left   int     `json:"left"`
	Right  int     `json:"right"`
	Height float64 `json:"height"`
}

// Dendrogram is the merge tree plus the leaf order it induces. Order is
// always a permutation of Names.
type Dendrogram struct {
	Names  []string `json:"names"`
	Merges []Merge  `json:"merges"`
	Order  []string `json:"order"` // leaf names left to right
}

// cluster is one active node during agglomeration.
type cluster struct {
	id      int // hclust signed index
	size    int
	minLeaf int   // lowest original leaf index in this subtree
	leaves  []int // leaf indexes left to right
}

// Cluster agglomerates the rows of m under pairwise Euclidean distance and
// returns the merge tree and leaf order. The result is deterministic: equal
// distances break toward the pair holding the lowest original indexes, and
// at every merge the subtree containing the lowest original leaf goes left.
// The leaf order is used to reorder filenames in heatmaps; the merge tree
// feeds an external dendrogram renderer.
func Cluster(m *mat.Dense, names []string, linkage Linkage) (*Dendrogram, error) {
	rows, _ := m.Dims()
	if rows != len(names) {
		return nil, &AggregationError{Msg: fmt.Sprintf("cluster: %d matrix rows for %d names", rows, len(names))}
	}
	if rows == 0 {
		return nil, &AggregationError{Msg: "cluster: empty matrix"}
	}
	switch linkage {
	case LinkageComplete, LinkageSingle, LinkageAverage:
	default:
		return nil, &AggregationError{Msg: fmt.Sprintf("cluster: unknown linkage %q", linkage)}
	}

	d := &Dendrogram{Names: append([]string(nil), names...)}
	if rows == 1 {
		d.Order = []string{names[0]}
		return d, nil
	}

	active := make([]*cluster, rows)
	for i := range active {
		active[i] = &cluster{id: -(i + 1), size: 1, minLeaf: i, leaves: []int{i}}
	}

	dist := make([][]float64, rows)
	for i := range dist {
		dist[i] = make([]float64, rows)
	}
	for i := 0; i < rows; i++ {
		for j := i + 1; j < rows; j++ {
			dij := floats.Distance(m.RawRowView(i), m.RawRowView(j), 2)
			if math.IsNaN(dij) || math.IsInf(dij, 0) {
				return nil, &AggregationError{
					Msg: fmt.Sprintf("cluster: distance between %s and %s is not finite", names[i], names[j]),
				}
			}
			dist[i][j], dist[j][i] = dij, dij
		}
	}

	for len(active) > 1 {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				dij := dist[i][j]
				if dij < best || (dij == best && pairBefore(active[i], active[j], active[bi], active[bj])) {
					best, bi, bj = dij, i, j
				}
			}
		}

		a, b := active[bi], active[bj]
		left, right := a, b
		if right.minLeaf < left.minLeaf {
			left, right = right, left
		}
		d.Merges = append(d.Merges, Merge{Left: left.id, Right: right.id, Height: best})

		merged := &cluster{
			id:      len(d.Merges),
			size:    a.size + b.size,
			minLeaf: left.minLeaf,
			leaves:  append(append([]int(nil), left.leaves...), right.leaves...),
		}

		for k := range active {
			if k == bi || k == bj {
				continue
			}
			da, db := dist[bi][k], dist[bj][k]
			var nd float64
			switch linkage {
			case LinkageSingle:
				nd = math.Min(da, db)
			case LinkageAverage:
				nd = (da*float64(a.size) + db*float64(b.size)) / float64(a.size+b.size)
			default:
				nd = math.Max(da, db)
			}
			dist[bi][k], dist[k][bi] = nd, nd
		}

		active[bi] = merged
		active = append(active[:bj], active[bj+1:]...)
		dist = append(dist[:bj], dist[bj+1:]...)
		for i := range dist {
			dist[i] = append(dist[i][:bj], dist[i][bj+1:]...)
		}
	}

	final := active[0]
	d.Order = make([]string, len(final.leaves))
	for i, leaf := range final.leaves {
		d.Order[i] = names[leaf]
	}
	return d, nil
}

// pairBefore reports whether the (a, b) pair wins a distance tie against the
// current (c, d) pair: the pair holding the lowest original leaf indexes is
// preferred.
func pairBefore(a, b, c, d *cluster) bool {
	aLo, aHi := orderedLeaves(a, b)
	cLo, cHi := orderedLeaves(c, d)
	if aLo != cLo {
		return aLo < cLo
	}
	return aHi < cHi
}

func orderedLeaves(a, b *cluster) (int, int) {
	if a.minLeaf <= b.minLeaf {
		return a.minLeaf, b.minLeaf
	}
	return b.minLeaf, a.minLeaf
}
