package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"pagebuilder/internal/domain"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 300 * time.Millisecond

// file is the on-disk manifest format:
//
//	manifests:
//	  - type: gallery
//	    name: Gallery
//	    isContainer: true
//	    sizes:
//	      desktop: {minWidth: 200}
//
// Capability flags left out default to movable, deletable and duplicatable.
type file struct {
	Manifests []fileManifest `yaml:"manifests"`
}

type fileManifest struct {
	Type         string                                       `yaml:"type"`
	Name         string                                       `yaml:"name"`
	Category     string                                       `yaml:"category"`
	IsContainer  bool                                         `yaml:"isContainer"`
	Resizable    bool                                         `yaml:"resizable"`
	Movable      *bool                                        `yaml:"movable"`
	Deletable    *bool                                        `yaml:"deletable"`
	Duplicatable *bool                                        `yaml:"duplicatable"`
	Sizes        map[domain.Breakpoint]domain.SizeConstraints `yaml:"sizes"`
}

func orTrue(b *bool) bool {
	return b == nil || *b
}

func (f fileManifest) manifest() domain.Manifest {
	name := f.Name
	if name == "" {
		name = f.Type
	}
	return domain.Manifest{
		Type:         f.Type,
		Name:         name,
		Category:     f.Category,
		IsContainer:  f.IsContainer,
		Resizable:    f.Resizable,
		Movable:      orTrue(f.Movable),
		Deletable:    orTrue(f.Deletable),
		Duplicatable: orTrue(f.Duplicatable),
		Sizes:        f.Sizes,
	}
}

// Parse decodes a manifest file. Types must be non-empty and unique.
func Parse(data []byte) ([]domain.Manifest, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse manifests: %w", err)
	}
	seen := make(map[string]bool, len(f.Manifests))
	out := make([]domain.Manifest, 0, len(f.Manifests))
	for i, fm := range f.Manifests {
		if fm.Type == "" {
			return nil, fmt.Errorf("manifest #%d: missing type", i+1)
		}
		if seen[fm.Type] {
			return nil, fmt.Errorf("manifest %q: %w", fm.Type, domain.ErrDuplicateID)
		}
		seen[fm.Type] = true
		out = append(out, fm.manifest())
	}
	return out, nil
}

// LoadFile reads path and replaces the registry contents with the built-in
// manifests overridden by the file's entries. On error the registry is left
// unchanged.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifests: %w", err)
	}
	loaded, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	next := make(map[string]domain.Manifest, len(loaded)+10)
	for _, m := range Builtin() {
		next[m.Type] = m
	}
	for _, m := range loaded {
		next[m.Type] = m
	}
	r.replace(next)
	r.logger.Info("manifests loaded", "path", path, "count", len(loaded))
	return nil
}

// Watch reloads path whenever it is written until ctx is done. The parent
// directory is watched so editors that replace the file are picked up.
func (r *Registry) Watch(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch manifests: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch manifests: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch manifests dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if name, _ := filepath.Abs(event.Name); name != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDelay, func() {
					if err := r.LoadFile(absPath); err != nil {
						r.logger.Warn("manifest reload failed", "path", absPath, "err", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("manifest watcher error", "err", err)
			}
		}
	}()

	r.logger.Info("watching manifests", "path", absPath)
	return nil
}
