// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DatasetRecord documents the provenance of one downloaded source file.
// The fetch stage writes one record per source to data/metadata/.
type DatasetRecord struct {
	// Name is the source name from the pipeline configuration.
	Name string `json:"name" yaml:"name"`

	// URL is the location the file was downloaded from.
	URL string `json:"url" yaml:"url"`

	// Path is where the file landed on disk.
	Path string `json:"path" yaml:"path"`

	// SHA256 is the hex digest of the downloaded bytes.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// Bytes is the downloaded file size.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// RetrievedAt is the download timestamp.
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`
}
