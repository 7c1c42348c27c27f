// Package registry loads template descriptors from a source, validates them,
// and caches the result by id.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load and cache events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics registers the cache counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.registerer = reg
	}
}

// Registry resolves template ids to validated descriptors. A descriptor is
// fetched at most once until the cache is cleared; failed loads are never
// cached.
type Registry struct {
	source     descriptor.Source
	logger     *slog.Logger
	registerer prometheus.Registerer
	metrics    *metrics

	mu    sync.RWMutex
	cache map[string]*descriptor.Template
	// gen advances on every ClearCache or Invalidate. A fetch started under
	// an older generation does not populate the cache.
	gen uint64

	group singleflight.Group
}

// New builds a registry over src.
func New(src descriptor.Source, opts ...Option) *Registry {
	r := &Registry{
		source: src,
		logger: slog.Default(),
		cache:  make(map[string]*descriptor.Template),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.registerer != nil {
		m, err := newMetrics(r.registerer)
		if err != nil {
			r.logger.Warn("registry metrics disabled", "error", err)
		} else {
			r.metrics = m
		}
	}
	return r
}

// Source returns the source the registry fetches from.
func (r *Registry) Source() descriptor.Source {
	return r.source
}

// Load returns the descriptor for id, fetching and validating it on a cache
// miss. Errors are *NotFoundError, *InvalidConfigError or *FetchError.
func (r *Registry) Load(ctx context.Context, id string) (*descriptor.Template, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &NotFoundError{TemplateID: id, Cause: descriptor.ErrNotFound}
	}

	if tpl, ok := r.lookup(id); ok {
		r.metrics.hit()
		r.logger.Debug("template cache hit", "template_id", id)
		return tpl, nil
	}

	gen := r.generation()
	// Callers share the fetch, so it must outlive any single caller's
	// cancellation. Sources apply their own timeouts.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(fmt.Sprintf("%s#%d", id, gen), func() (any, error) {
		// Another caller may have populated the entry while we waited.
		if tpl, ok := r.lookup(id); ok {
			return tpl, nil
		}
		r.metrics.miss()
		tpl, err := r.fetch(fetchCtx, id)
		if err != nil {
			r.metrics.failure(reasonOf(err))
			return nil, err
		}
		r.store(id, tpl, gen)
		return tpl, nil
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{TemplateID: id, Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			r.logger.Debug("template load failed", "template_id", id, "error", res.Err)
			return nil, res.Err
		}
		if res.Shared {
			r.logger.Debug("template load shared", "template_id", id)
		}
		return res.Val.(*descriptor.Template), nil
	}
}

func (r *Registry) fetch(ctx context.Context, id string) (*descriptor.Template, error) {
	if r.source == nil {
		return nil, &FetchError{TemplateID: id, Cause: errors.New("registry: no source configured")}
	}
	raw, err := r.source.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, descriptor.ErrNotFound) {
			return nil, &NotFoundError{TemplateID: id, Cause: err}
		}
		return nil, &FetchError{TemplateID: id, Cause: err}
	}
	tpl, err := descriptor.Load(raw)
	if err != nil {
		return nil, &InvalidConfigError{TemplateID: id, Cause: err}
	}
	if tpl.Metadata.ID != id {
		r.logger.Debug("template id differs from requested id",
			"template_id", id,
			"metadata_id", tpl.Metadata.ID)
	}
	return tpl, nil
}

func (r *Registry) lookup(id string) (*descriptor.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.cache[id]
	return tpl, ok
}

func (r *Registry) generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}

// store caches tpl unless the cache was cleared or invalidated after the
// fetch began.
func (r *Registry) store(id string, tpl *descriptor.Template, gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		r.logger.Debug("stale template load discarded", "template_id", id)
		return
	}
	r.cache[id] = tpl
	n := len(r.cache)
	r.mu.Unlock()
	r.metrics.size(n)
	r.logger.Debug("template cached", "template_id", id, "cached", n)
}

// ClearCache drops every cached descriptor.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]*descriptor.Template)
	r.gen++
	r.mu.Unlock()
	r.metrics.size(0)
	r.logger.Debug("template cache cleared")
}

// Invalidate drops the cached descriptor for id, if any.
func (r *Registry) Invalidate(id string) {
	id = strings.TrimSpace(id)
	r.mu.Lock()
	delete(r.cache, id)
	r.gen++
	n := len(r.cache)
	r.mu.Unlock()
	r.metrics.size(n)
}

// Cached reports whether id is currently cached.
func (r *Registry) Cached(id string) bool {
	_, ok := r.lookup(strings.TrimSpace(id))
	return ok
}

// Len returns the number of cached descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// CachedIDs returns the cached ids in lexical order.
func (r *Registry) CachedIDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.cache))
	for id := range r.cache {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// List returns the template manifest when the source can enumerate itself.
func (r *Registry) List(ctx context.Context) ([]descriptor.Metadata, error) {
	lister, ok := r.source.(descriptor.Lister)
	if !ok {
		return nil, fmt.Errorf("registry: source %T cannot list templates", r.source)
	}
	items, err := lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: list templates: %w", err)
	}
	return items, nil
}
