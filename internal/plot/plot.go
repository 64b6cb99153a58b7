// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plot prepares scatter-plot point files from a derived table
// and optionally renders them through a containerized chart renderer.
package plot

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarabartl/space-valence-met/internal/container"
	"github.com/sarabartl/space-valence-met/pkg/types"
)

const defaultImage = "chart-render:latest"

// WritePoints writes a TSV of plottable points for the given column
// pair to path. Each row holds the word, its x and y values, and a
// labeled flag (1 when the word appears in labels). Rows missing
// either coordinate are omitted.
func WritePoints(t *types.Table, xCol, yCol string, labels []string, path string) (int, error) {
	xs, err := t.Column(xCol)
	if err != nil {
		return 0, err
	}
	ys, err := t.Column(yCol)
	if err != nil {
		return 0, err
	}

	labelSet := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		labelSet[types.NormalizeWord(l)] = struct{}{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	var sb strings.Builder
	sb.WriteString("word\t" + xCol + "\t" + yCol + "\tlabeled\n")

	written := 0
	for i, word := range t.Words() {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		labeled := "0"
		if _, ok := labelSet[word]; ok {
			labeled = "1"
		}
		sb.WriteString(word)
		sb.WriteByte('\t')
		sb.WriteString(strconv.FormatFloat(xs[i], 'g', -1, 64))
		sb.WriteByte('\t')
		sb.WriteString(strconv.FormatFloat(ys[i], 'g', -1, 64))
		sb.WriteByte('\t')
		sb.WriteString(labeled)
		sb.WriteByte('\n')
		written++
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return written, nil
}

// ContainerRenderer renders point files into SVG charts by piping them
// through a chart-render container image. It depends on a
// container.Runtime (docker or podman) injected at construction time.
type ContainerRenderer struct {
	runtime container.Runtime
	image   string
}

// NewContainerRenderer creates a renderer that uses the given container
// runtime. It verifies that the renderer image exists locally before
// returning. An empty image selects the default chart-render image.
func NewContainerRenderer(rt container.Runtime, image string) (*ContainerRenderer, error) {
	if image == "" {
		image = defaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("renderer image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerRenderer{runtime: rt, image: image}, nil
}

// Render reads the point file at pointsPath, pipes it through the
// renderer container, and writes the resulting SVG next to it.
func (r *ContainerRenderer) Render(pointsPath string) (string, error) {
	f, err := os.Open(pointsPath)
	if err != nil {
		return "", fmt.Errorf("opening points %s: %w", pointsPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	args := []string{"--format", "svg"}
	if err := r.runtime.Run(r.image, args, f, &out); err != nil {
		return "", fmt.Errorf("rendering %s: %w", pointsPath, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("renderer produced empty output for %s", pointsPath)
	}

	svgPath := strings.TrimSuffix(pointsPath, filepath.Ext(pointsPath)) + ".svg"
	if err := os.WriteFile(svgPath, out.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", svgPath, err)
	}
	return svgPath, nil
}
