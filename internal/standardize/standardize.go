// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package standardize applies per-column z-score transforms. Scores are
// standardized independently per source table and per axis: each source
// has its own rating scale, so z-scores are never computed jointly
// across sources.
package standardize

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// ZScores returns (x - mean) / stddev for each element, with mean and
// sample standard deviation computed over the non-missing values only.
// Missing (NaN) positions stay missing; they are never imputed. An
// empty or zero-variance input yields NaN for every element rather
// than an error, and callers must tolerate the NaNs propagating.
func ZScores(xs []float64) []float64 {
	present := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}

	out := make([]float64, len(xs))
	mean, std := stat.MeanStdDev(present, nil)
	if len(present) == 0 || std == 0 || math.IsNaN(std) {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x - mean) / std
	}
	return out
}

// Table returns a copy of t with every column replaced by its z-scores.
func Table(t *types.Table) (*types.Table, error) {
	return Columns(t, t.Columns())
}

// Columns returns a copy of t with the named columns replaced by their
// z-scores. Unknown column names are fatal.
func Columns(t *types.Table, cols []string) (*types.Table, error) {
	out := t.Clone()
	for _, c := range cols {
		vals, err := out.Column(c)
		if err != nil {
			return nil, err
		}
		if err := out.SetColumn(c, ZScores(vals)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
