// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

func testTable(t *testing.T) *types.Table {
	t.Helper()
	table := types.NewTable("points", []string{"valence", "vert"})
	rows := []struct {
		word string
		vals map[string]float64
	}{
		{"cat", map[string]float64{"valence": 0.5, "vert": 1.0}},
		{"dog", map[string]float64{"valence": -0.2, "vert": math.NaN()}},
		{"sun", map[string]float64{"valence": 0.9, "vert": 2.5}},
	}
	for _, r := range rows {
		if err := table.AppendRow(r.word, r.vals); err != nil {
			t.Fatalf("AppendRow(%q): %v", r.word, err)
		}
	}
	return table
}

func TestWritePoints(t *testing.T) {
	table := testTable(t)
	path := filepath.Join(t.TempDir(), "plots", "valence_vert.tsv")

	n, err := WritePoints(table, "valence", "vert", []string{"SUN "}, path)
	if err != nil {
		t.Fatalf("WritePoints: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d points, want 2 (dog has a missing vert)", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading points: %v", err)
	}
	want := "word\tvalence\tvert\tlabeled\n" +
		"cat\t0.5\t1\t0\n" +
		"sun\t0.9\t2.5\t1\n"
	if string(data) != want {
		t.Errorf("points file = %q, want %q", string(data), want)
	}
}

func TestWritePointsMissingColumn(t *testing.T) {
	table := testTable(t)
	path := filepath.Join(t.TempDir(), "points.tsv")

	if _, err := WritePoints(table, "valence", "nope", nil, path); err == nil {
		t.Fatal("expected error for unknown column")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file should be written on error, stat err = %v", err)
	}
}
