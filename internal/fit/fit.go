// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fit runs ordinary least-squares linear models over pairs of
// standardized columns and reports the summary statistics the analysis
// prints alongside each scatterplot.
package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// Result holds an OLS fit summary.
type Result struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	RSquared  float64 `json:"r_squared" yaml:"r_squared"`
	// PValue is the two-sided p-value for the slope against zero,
	// from the Student's t distribution with n-2 degrees of freedom.
	PValue float64 `json:"p_value" yaml:"p_value"`
	// N is the number of paired non-missing observations.
	N int `json:"n" yaml:"n"`
}

// Columns fits y ~ x over the named columns of t.
func Columns(t *types.Table, xCol, yCol string) (Result, error) {
	x, err := t.Column(xCol)
	if err != nil {
		return Result{}, err
	}
	y, err := t.Column(yCol)
	if err != nil {
		return Result{}, err
	}
	r, err := OLS(x, y)
	if err != nil {
		return Result{}, fmt.Errorf("fitting %s ~ %s: %w", yCol, xCol, err)
	}
	return r, nil
}

// OLS fits y = intercept + slope*x by ordinary least squares. Pairs
// where either value is missing are excluded. A zero-variance predictor
// yields NaN statistics, consistent with how degenerate standardization
// propagates elsewhere in the pipeline.
func OLS(x, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("sequence lengths differ: %d vs %d", len(x), len(y))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	n := len(xs)
	if n < 3 {
		return Result{}, fmt.Errorf("need at least 3 paired observations, have %d", n)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	res := Result{
		Slope:     beta,
		Intercept: alpha,
		RSquared:  r2,
		PValue:    slopePValue(xs, ys, alpha, beta),
		N:         n,
	}
	return res, nil
}

// slopePValue computes the two-sided p-value of the slope via its
// standard error and the t distribution with n-2 degrees of freedom.
func slopePValue(xs, ys []float64, alpha, beta float64) float64 {
	n := len(xs)
	xMean := stat.Mean(xs, nil)

	var rss, sxx float64
	for i := range xs {
		r := ys[i] - alpha - beta*xs[i]
		rss += r * r
		d := xs[i] - xMean
		sxx += d * d
	}
	if sxx == 0 {
		return math.NaN()
	}

	se := math.Sqrt(rss / float64(n-2) / sxx)
	if se == 0 {
		// Perfect fit: the slope is exactly determined.
		return 0
	}

	t := beta / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.CDF(-math.Abs(t))
}
