// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sample picks a small, reproducible subset of table rows for
// scatterplot labels. Dense plots with tens of thousands of points are
// unreadable when every point is labeled; the sampler chooses a handful
// of words stratified by quartile so the labels span the full range of
// each axis, not just the extremes.
package sample

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// ErrInsufficientBin reports a quartile bin with fewer rows than the
// requested draw while strict bins are enabled.
var ErrInsufficientBin = errors.New("quartile bin smaller than requested sample")

// Params controls one sampling call.
type Params struct {
	// Seed initializes the generator. A fresh generator is seeded per
	// column pass, so the two passes draw from identical streams and
	// the output is exactly reproducible for fixed inputs.
	Seed int64

	// NEdge rows are drawn from each outer bin ([min,Q1] and (Q3,max]),
	// NMid from each inner bin.
	NEdge int
	NMid  int

	// StrictBins makes a short bin an ErrInsufficientBin instead of
	// being returned whole.
	StrictBins bool
}

// Quartile samples label words from t using colA and colB.
//
// Rows missing either column are excluded. For each column in turn the
// eligible rows are partitioned into four half-open quartile bins
// ([min,Q1], (Q1,Q2], (Q2,Q3], (Q3,max], boundaries by linear
// interpolation between order statistics) and NEdge/NMid/NMid/NEdge
// rows are drawn without replacement. The two row sets are unioned by
// word and returned deduplicated in table order.
func Quartile(t *types.Table, colA, colB string, p Params) ([]string, error) {
	if p.NEdge < 0 || p.NMid < 0 {
		return nil, fmt.Errorf("sample: negative draw count")
	}

	a, err := t.Column(colA)
	if err != nil {
		return nil, err
	}
	b, err := t.Column(colB)
	if err != nil {
		return nil, err
	}

	words := t.Words()
	var elig []int
	for i := range words {
		if !math.IsNaN(a[i]) && !math.IsNaN(b[i]) {
			elig = append(elig, i)
		}
	}

	chosen := make(map[int]struct{})
	for _, col := range []struct {
		name string
		vals []float64
	}{{colA, a}, {colB, b}} {
		if err := drawByQuartile(col.name, col.vals, elig, p, chosen); err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(chosen))
	for _, i := range elig {
		if _, ok := chosen[i]; ok {
			out = append(out, words[i])
		}
	}
	return out, nil
}

// drawByQuartile partitions the eligible rows into quartile bins of
// vals and adds the drawn row indices to chosen.
func drawByQuartile(name string, vals []float64, elig []int, p Params, chosen map[int]struct{}) error {
	if len(elig) == 0 {
		return nil
	}

	sorted := make([]float64, len(elig))
	for i, ri := range elig {
		sorted[i] = vals[ri]
	}
	sort.Float64s(sorted)

	var bounds [5]float64
	for i, q := range [5]float64{0, 0.25, 0.5, 0.75, 1} {
		bounds[i] = quantile(sorted, q)
	}

	var bins [4][]int
	for _, ri := range elig {
		bi := binIndex(vals[ri], bounds)
		bins[bi] = append(bins[bi], ri)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	want := [4]int{p.NEdge, p.NMid, p.NMid, p.NEdge}
	for bi, bin := range bins {
		n := want[bi]
		if len(bin) < n {
			if p.StrictBins {
				return fmt.Errorf("column %s bin %d: %w: have %d rows, want %d",
					name, bi+1, ErrInsufficientBin, len(bin), n)
			}
			n = len(bin)
		}
		for _, k := range rng.Perm(len(bin))[:n] {
			chosen[bin[k]] = struct{}{}
		}
	}
	return nil
}

// binIndex places x into one of the four half-open quartile bins. The
// minimum belongs to the first bin; each boundary value belongs to the
// bin below it.
func binIndex(x float64, bounds [5]float64) int {
	switch {
	case x <= bounds[1]:
		return 0
	case x <= bounds[2]:
		return 1
	case x <= bounds[3]:
		return 2
	default:
		return 3
	}
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between order statistics, the conventional definition
// used by quartile boundaries.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
