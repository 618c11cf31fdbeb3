package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"market-digest/internal/types"
)

// Write persists the snapshot to path atomically: marshal to a temp file
// in the target directory, then rename over the previous run's file. The
// prior snapshot is fully replaced, never merged. This is the one
// operation whose failure is fatal to the run.
func Write(snap types.Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".digest-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Read loads a previously written snapshot. The dashboard is the usual
// consumer; the binary itself only reads snapshots in tests.
func Read(path string) (types.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Snapshot{}, err
	}
	var snap types.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
