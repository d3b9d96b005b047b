// Package ledger remembers which replay files have already been processed.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/lo"
)

type Ledger interface {
	Load() error
	Contains(name string) bool
	Append(name string)
	Flush() error
}

type document struct {
	Processed []string `json:"processed"`
}

// File is a Ledger persisted as a JSON document. It is safe for concurrent use.
type File struct {
	path string

	mu    sync.Mutex
	names map[string]struct{}
	dirty bool
}

func NewFile(path string) *File {
	return &File{path: path, names: map[string]struct{}{}}
}

// Load replaces the in-memory set with the file contents. A missing file is
// an empty ledger.
func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.names = map[string]struct{}{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse ledger %s: %w", f.path, err)
	}
	f.names = lo.SliceToMap(doc.Processed, func(name string) (string, struct{}) {
		return name, struct{}{}
	})
	f.dirty = false
	return nil
}

func (f *File) Contains(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.names[name]
	return ok
}

func (f *File) Append(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.names[name]; ok {
		return
	}
	f.names[name] = struct{}{}
	f.dirty = true
}

func (f *File) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.names)
}

// Flush rewrites the ledger file through a temp file and rename, so readers
// never observe a partial document.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}

	names := lo.Keys(f.names)
	slices.Sort(names)
	data, err := json.MarshalIndent(document{Processed: names}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	f.dirty = false
	return nil
}
