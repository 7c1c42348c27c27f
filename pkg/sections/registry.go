package sections

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// Renderer turns résumé data into section content. It receives the section
// config and the already resolved effective style, and reports false when it
// has nothing to show. Renderers must be pure: no I/O, no mutation of data.
type Renderer func(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool)

// Registry maps section type tags to renderers. Lookup of an unknown tag is a
// normal miss, never an error.
type Registry struct {
	mu        sync.RWMutex
	renderers map[descriptor.SectionType]Renderer
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		renderers: make(map[descriptor.SectionType]Renderer),
	}
}

// Default returns a registry holding every built-in renderer.
func Default() *Registry {
	reg := New()
	for sectionType, renderer := range builtins() {
		reg.MustRegister(sectionType, renderer)
	}
	return reg
}

// Register adds a renderer for sectionType. Duplicate tags return an error.
func (r *Registry) Register(sectionType descriptor.SectionType, renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("sections: renderer is required")
	}
	key := normalize(sectionType)
	if key == "" {
		return fmt.Errorf("sections: section type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[key]; exists {
		return fmt.Errorf("sections: renderer %q already registered", key)
	}
	r.renderers[key] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(sectionType descriptor.SectionType, renderer Renderer) {
	if err := r.Register(sectionType, renderer); err != nil {
		panic(err)
	}
}

// Replace registers renderer for sectionType, overwriting any existing entry.
func (r *Registry) Replace(sectionType descriptor.SectionType, renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("sections: renderer is required")
	}
	key := normalize(sectionType)
	if key == "" {
		return fmt.Errorf("sections: section type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[key] = renderer
	return nil
}

// Resolve returns the renderer for sectionType.
func (r *Registry) Resolve(sectionType descriptor.SectionType) (Renderer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[normalize(sectionType)]
	return renderer, ok
}

// Has reports whether a renderer is registered for sectionType.
func (r *Registry) Has(sectionType descriptor.SectionType) bool {
	_, ok := r.Resolve(sectionType)
	return ok
}

// Types returns the registered tags in lexical order.
func (r *Registry) Types() []descriptor.SectionType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]descriptor.SectionType, 0, len(r.renderers))
	for key := range r.renderers {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy so callers can extend the table without
// touching the original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := New()
	for key, renderer := range r.renderers {
		out.renderers[key] = renderer
	}
	return out
}

func normalize(sectionType descriptor.SectionType) descriptor.SectionType {
	return descriptor.SectionType(strings.ToLower(strings.TrimSpace(string(sectionType))))
}
