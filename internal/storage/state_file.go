package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"lstpool/internal/pool"
)

// LoadPoolState reads a pool state file. A missing file yields an empty,
// uninitialized state.
func LoadPoolState(path string) (*pool.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &pool.State{}, nil
		}
		return nil, fmt.Errorf("read pool state: %w", err)
	}
	var s pool.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse pool state: %w", err)
	}
	return &s, nil
}

// SavePoolState writes s to path through a temporary file.
func SavePoolState(path string, s *pool.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pool state: %w", err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic replaces path with data so readers never see a partial
// file.
func writeFileAtomic(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}
