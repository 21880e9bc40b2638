// Package asset models the raw configuration inputs handed to the resolution
// pipeline: (path, module, content) triples. The pipeline never discovers
// files on its own; callers enumerate assets through a Registry or the
// LoadDir helper and pass them in.
package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Asset is a single configuration input resolved into memory by the caller.
type Asset struct {
	// Path is the original file path; parsers derive format and profile
	// from it.
	Path string
	// Module names the module that contributed the asset. It drives merge
	// precedence.
	Module string
	// Data is the raw file content.
	Data []byte
}

// Name returns the base file name of the asset path.
func (a Asset) Name() string {
	return filepath.Base(a.Path)
}

// Ext returns the lower-cased file extension, including the leading dot.
func (a Asset) Ext() string {
	return strings.ToLower(filepath.Ext(a.Path))
}

// Registry holds the ordered list of assets to feed into the pipeline.
// Access is guarded so embedders can populate it from init hooks before
// startup; the pipeline itself only reads.
type Registry struct {
	mu     sync.RWMutex
	assets []Asset
}

// NewRegistry creates an empty asset registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends assets to the registry, preserving insertion order.
func (r *Registry) Add(assets ...Asset) {
	r.mu.Lock()
	r.assets = append(r.assets, assets...)
	r.mu.Unlock()
}

// List returns a defensive copy of the registered assets.
func (r *Registry) List() []Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Asset, len(r.assets))
	copy(out, r.assets)
	return out
}

// LoadDir reads every regular file under dir (recursively) into assets
// attributed to the given module. Hidden directories are skipped.
func LoadDir(dir, module string) ([]Asset, error) {
	var assets []Asset

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		assets = append(assets, Asset{Path: path, Module: module, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk asset dir %s: %w", dir, err)
	}

	return assets, nil
}
