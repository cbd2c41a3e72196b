// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SnapshotVersion is the format version written by ExportToJSON.
const SnapshotVersion = "1.0"

// Snapshot is the JSON export format of a dataset.
type Snapshot struct {
	Version     string    `json:"version"`
	Reference   string    `json:"reference"`
	GeneratedAt time.Time `json:"generated_at"`
	Dataset     *Dataset  `json:"dataset"`
}

// ExportToJSON writes ds to a JSON file.
func ExportToJSON(ds *Dataset, reference, filepath string) error {
	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Reference:   reference,
		GeneratedAt: time.Now(),
		Dataset:     ds,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	err = os.WriteFile(filepath, data, 0o600)
	if err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// ImportFromJSON reads a snapshot written by ExportToJSON.
func ImportFromJSON(filepath string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", snapshot.Version)
	}

	if snapshot.Dataset == nil {
		return nil, fmt.Errorf("snapshot %s has no dataset", filepath)
	}

	return &snapshot, nil
}
