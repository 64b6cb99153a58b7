// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fit

import (
	"math"
	"testing"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

func TestOLSExactLine(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	r, err := OLS(x, y)
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}
	if math.Abs(r.Slope-2) > 1e-12 {
		t.Errorf("Slope = %g, want 2", r.Slope)
	}
	if math.Abs(r.Intercept-1) > 1e-12 {
		t.Errorf("Intercept = %g, want 1", r.Intercept)
	}
	if math.Abs(r.RSquared-1) > 1e-12 {
		t.Errorf("RSquared = %g, want 1", r.RSquared)
	}
	if r.PValue != 0 {
		t.Errorf("PValue = %g, want 0 for a perfect fit", r.PValue)
	}
	if r.N != 5 {
		t.Errorf("N = %d, want 5", r.N)
	}
}

func TestOLSNoisyFit(t *testing.T) {
	// y = x with alternating +-0.1 noise; the slope estimate stays near 1
	// and the fit is strongly significant over 20 points.
	var x, y []float64
	for i := 0; i < 20; i++ {
		noise := 0.1
		if i%2 == 1 {
			noise = -0.1
		}
		x = append(x, float64(i))
		y = append(y, float64(i)+noise)
	}

	r, err := OLS(x, y)
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}
	if math.Abs(r.Slope-1) > 0.01 {
		t.Errorf("Slope = %g, want ~1", r.Slope)
	}
	if r.RSquared < 0.99 {
		t.Errorf("RSquared = %g, want > 0.99", r.RSquared)
	}
	if r.PValue <= 0 || r.PValue > 1e-10 {
		t.Errorf("PValue = %g, want tiny but positive", r.PValue)
	}
}

func TestOLSExcludesMissingPairs(t *testing.T) {
	x := []float64{0, 1, math.NaN(), 3, 4, 5}
	y := []float64{1, 3, 5, math.NaN(), 9, 11}

	r, err := OLS(x, y)
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}
	// The four complete pairs lie exactly on y = 2x + 1.
	if r.N != 4 {
		t.Errorf("N = %d, want 4", r.N)
	}
	if math.Abs(r.Slope-2) > 1e-12 || math.Abs(r.Intercept-1) > 1e-12 {
		t.Errorf("fit = (%g, %g), want (2, 1)", r.Slope, r.Intercept)
	}
}

func TestOLSErrors(t *testing.T) {
	if _, err := OLS([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := OLS([]float64{1, 2}, []float64{1, 2}); err == nil {
		t.Error("expected error for fewer than 3 pairs")
	}
	nan := math.NaN()
	if _, err := OLS([]float64{1, 2, nan, nan}, []float64{1, 2, 3, 4}); err == nil {
		t.Error("expected error when missing values leave fewer than 3 pairs")
	}
}

func TestOLSConstantPredictor(t *testing.T) {
	x := []float64{2, 2, 2, 2}
	y := []float64{1, 2, 3, 4}

	r, err := OLS(x, y)
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}
	if !math.IsNaN(r.PValue) {
		t.Errorf("PValue = %g, want NaN for a zero-variance predictor", r.PValue)
	}
}

func TestColumns(t *testing.T) {
	table := types.NewTable("scores", []string{"x", "y"})
	for i := 0; i < 5; i++ {
		vals := map[string]float64{"x": float64(i), "y": 3 * float64(i)}
		word := string(rune('a' + i))
		if err := table.AppendRow(word, vals); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}

	r, err := Columns(table, "x", "y")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if math.Abs(r.Slope-3) > 1e-12 {
		t.Errorf("Slope = %g, want 3", r.Slope)
	}

	if _, err := Columns(table, "x", "nope"); err == nil {
		t.Error("expected error for unknown column")
	}
}
