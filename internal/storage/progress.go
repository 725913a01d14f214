package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// ProgressStore keeps named positions. The postgres store implements it on
// the pool_progress table.
type ProgressStore interface {
	LoadState(ctx context.Context, name string) (uint64, bool, error)
	SaveState(ctx context.Context, name string, pos uint64) error
}

// FileProgress keeps every named position in one JSON file.
type FileProgress struct {
	Path string
	mu   sync.Mutex
}

type progressFile struct {
	Cursors map[string]progressEntry `json:"cursors"`
}

type progressEntry struct {
	Position  uint64 `json:"position"`
	UpdatedAt string `json:"updated_at"`
}

func (f *FileProgress) LoadState(_ context.Context, name string) (uint64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pf, err := f.read()
	if err != nil {
		return 0, false, err
	}
	entry, ok := pf.Cursors[name]
	return entry.Position, ok, nil
}

func (f *FileProgress) SaveState(_ context.Context, name string, pos uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	pf, err := f.read()
	if err != nil {
		return err
	}
	pf.Cursors[name] = progressEntry{Position: pos, UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano)}

	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return writeFileAtomic(f.Path, data)
}

func (f *FileProgress) read() (progressFile, error) {
	pf := progressFile{Cursors: map[string]progressEntry{}}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return pf, nil
		}
		return pf, fmt.Errorf("read progress: %w", err)
	}
	if err := json.Unmarshal(data, &pf); err != nil {
		return pf, fmt.Errorf("parse progress %s: %w", f.Path, err)
	}
	if pf.Cursors == nil {
		pf.Cursors = map[string]progressEntry{}
	}
	return pf, nil
}

// Cursor is one named position in a ProgressStore. A Cursor without a store
// never has a position and ignores saves.
type Cursor struct {
	Store ProgressStore
	Name  string
}

func (c Cursor) Load(ctx context.Context) (uint64, bool, error) {
	if c.Store == nil {
		return 0, false, nil
	}
	return c.Store.LoadState(ctx, c.Name)
}

func (c Cursor) Save(ctx context.Context, pos uint64) error {
	if c.Store == nil {
		return nil
	}
	return c.Store.SaveState(ctx, c.Name, pos)
}
