package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// DefaultPatterns matches JSON and YAML descriptors at any depth.
var DefaultPatterns = []string{"**/*.json", "**/*.yaml", "**/*.yml"}

// FSOption configures an FS source.
type FSOption func(*FS)

// WithPatterns replaces the doublestar include patterns.
func WithPatterns(patterns ...string) FSOption {
	return func(f *FS) {
		if len(patterns) > 0 {
			f.patterns = append([]string(nil), patterns...)
		}
	}
}

// WithExcludes skips files matching any of the doublestar patterns.
func WithExcludes(patterns ...string) FSOption {
	return func(f *FS) {
		f.excludes = append(f.excludes, patterns...)
	}
}

// FS serves descriptors stored as files in an fs.FS. Files are indexed by
// their metadata.id; a file without one is indexed by its base name so a
// request for it reaches validation instead of reporting not found.
type FS struct {
	fsys     fs.FS
	patterns []string
	excludes []string

	mu    sync.RWMutex
	index map[string]string
}

var (
	_ descriptor.Source = (*FS)(nil)
	_ descriptor.Lister = (*FS)(nil)
)

// NewFS scans fsys and returns the indexed source. Two files declaring the
// same id is an error.
func NewFS(fsys fs.FS, opts ...FSOption) (*FS, error) {
	if fsys == nil {
		return nil, errors.New("source: fs is nil")
	}
	f := &FS{fsys: fsys, patterns: DefaultPatterns}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewDir is NewFS over os.DirFS(dir).
func NewDir(dir string, opts ...FSOption) (*FS, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("source: directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source: %s is not a directory", dir)
	}
	return NewFS(os.DirFS(dir), opts...)
}

// Reload rebuilds the id index. The previous index stays in place when the
// scan fails.
func (f *FS) Reload() error {
	files, err := f.match()
	if err != nil {
		return err
	}

	index := make(map[string]string, len(files))
	for _, name := range files {
		raw, err := fs.ReadFile(f.fsys, name)
		if err != nil {
			return fmt.Errorf("source: read %s: %w", name, err)
		}
		id := idOf(raw, name)
		if prev, exists := index[id]; exists {
			return fmt.Errorf("source: duplicate template id %q (%s, %s)", id, prev, name)
		}
		index[id] = name
	}

	f.mu.Lock()
	f.index = index
	f.mu.Unlock()
	return nil
}

func (f *FS) match() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range f.patterns {
		matches, err := doublestar.Glob(f.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("source: glob %q: %w", pattern, err)
		}
		for _, name := range matches {
			if _, ok := seen[name]; ok || f.excluded(name) {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *FS) excluded(name string) bool {
	for _, pattern := range f.excludes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func idOf(raw []byte, name string) string {
	if tpl, err := descriptor.Parse(raw); err == nil {
		if id := strings.TrimSpace(tpl.Metadata.ID); id != "" {
			return id
		}
	}
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Path returns the file backing id.
func (f *FS) Path(id string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	name, ok := f.index[strings.TrimSpace(id)]
	return name, ok
}

// Fetch implements descriptor.Source.
func (f *FS) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, ok := f.Path(id)
	if !ok {
		return nil, fmt.Errorf("source: fs %q: %w", id, descriptor.ErrNotFound)
	}
	raw, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("source: fs %q: %w", id, descriptor.ErrNotFound)
		}
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	return raw, nil
}

// IDs lists indexed template ids in lexical order.
func (f *FS) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]string, 0, len(f.index))
	for id := range f.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List implements descriptor.Lister. Files that no longer parse are skipped.
func (f *FS) List(ctx context.Context) ([]descriptor.Metadata, error) {
	out := make([]descriptor.Metadata, 0)
	for _, id := range f.IDs() {
		raw, err := f.Fetch(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		tpl, err := descriptor.Parse(raw)
		if err != nil {
			continue
		}
		meta := tpl.Metadata
		if strings.TrimSpace(meta.ID) == "" {
			meta.ID = id
		}
		out = append(out, meta)
	}
	return out, nil
}
