// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the configured source datasets and records
// provenance metadata for each.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/sarabartl/space-valence-met/internal/httputil"
	"github.com/sarabartl/space-valence-met/internal/secrets"
	"github.com/sarabartl/space-valence-met/pkg/types"
)

const (
	rawDir      = "raw"
	metadataDir = "metadata"
)

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Records    []*types.DatasetRecord
}

// Total returns the total number of sources processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any sources failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchSource downloads one source dataset into cfg.DataDir/raw/ and
// writes a provenance record. If the file already exists on disk the
// download is skipped. Hosts with a configured token get it as a
// bearer Authorization header.
func FetchSource(ctx context.Context, client *http.Client, src types.SourceConfig, cfg types.FetchConfig, tokens map[string]string, w io.Writer) (record *types.DatasetRecord, skipped bool, err error) {
	if src.URL == "" {
		return nil, false, fmt.Errorf("source %s has no download URL", src.Name)
	}

	destPath := filepath.Join(cfg.DataDir, rawDir, src.Name+ext(src.URL))
	metaPath := filepath.Join(cfg.DataDir, metadataDir, src.Name+".yaml")

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", src.Name)
		rec, readErr := readRecord(metaPath)
		if readErr != nil {
			rec = &types.DatasetRecord{Name: src.Name, Path: destPath}
		}
		return rec, true, nil
	}

	for _, dir := range []string{
		filepath.Join(cfg.DataDir, rawDir),
		filepath.Join(cfg.DataDir, metadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "downloading: %s (%s)\n", src.Name, src.URL)

	sum, size, err := downloadFile(ctx, client, src.URL, destPath, cfg, tokens)
	if err != nil {
		return nil, false, fmt.Errorf("downloading %s: %w", src.Name, err)
	}

	rec := &types.DatasetRecord{
		Name:        src.Name,
		URL:         src.URL,
		Path:        destPath,
		SHA256:      sum,
		Bytes:       size,
		RetrievedAt: time.Now().UTC(),
	}
	if err := writeRecord(rec, metaPath); err != nil {
		return nil, false, fmt.Errorf("writing metadata for %s: %w", src.Name, err)
	}
	return rec, false, nil
}

// FetchAll processes the given sources, printing per-source status and
// returning a summary. It continues after individual failures and
// applies a delay between consecutive downloads.
func FetchAll(ctx context.Context, client *http.Client, sources []types.SourceConfig, cfg types.FetchConfig, tokens map[string]string, w io.Writer) BatchResult {
	var result BatchResult
	for i, src := range sources {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		rec, wasSkipped, err := FetchSource(ctx, client, src, cfg, tokens, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", src.Name, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Records = append(result.Records, rec)
	}
	fmt.Fprintf(w, "\nFetch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches rawURL to destPath using a temporary file and
// rename, returning the SHA-256 digest and byte count. Throttled
// responses are retried with backoff.
func downloadFile(ctx context.Context, client *http.Client, rawURL, destPath string, cfg types.FetchConfig, tokens map[string]string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if u, err := url.Parse(rawURL); err == nil {
		if token := secrets.TokenFor(tokens, u.Hostname()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	digest := sha256.New()
	size, copyErr := io.Copy(io.MultiWriter(tmpFile, digest), resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), size, nil
}

// ext extracts a file extension from a download URL, defaulting to .csv.
func ext(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".csv"
	}
	if e := filepath.Ext(u.Path); e != "" {
		return e
	}
	return ".csv"
}

// writeRecord writes a DatasetRecord to a YAML file.
func writeRecord(rec *types.DatasetRecord, path string) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readRecord reads a DatasetRecord from a YAML file.
func readRecord(path string) (*types.DatasetRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec types.DatasetRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
