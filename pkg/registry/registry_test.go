package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/source"
)

const validDoc = `{"metadata":{"id":"t1","name":"T"},"layout":{"type":"single-column"},"sections":[{"type":"summary"}],"theme":{"primaryColor":"#123456"}}`

type countingSource struct {
	inner descriptor.Source
	calls atomic.Int64
}

func (c *countingSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	c.calls.Add(1)
	return c.inner.Fetch(ctx, id)
}

func newCounting(docs map[string]string) *countingSource {
	raw := make(map[string][]byte, len(docs))
	for id, doc := range docs {
		raw[id] = []byte(doc)
	}
	return &countingSource{inner: source.NewMemory(raw)}
}

func TestLoad_CachesSuccessfulLoads(t *testing.T) {
	src := newCounting(map[string]string{"t1": validDoc})
	reg := New(src)

	first, err := reg.Load(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := reg.Load(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached pointer to be reused")
	}
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	if !reg.Cached("t1") || reg.Len() != 1 {
		t.Fatalf("expected t1 to be cached, len=%d", reg.Len())
	}
}

func TestClearCache_ForcesRefetch(t *testing.T) {
	src := newCounting(map[string]string{"t1": validDoc})
	reg := New(src)
	ctx := context.Background()

	if _, err := reg.Load(ctx, "t1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	reg.ClearCache()
	if reg.Len() != 0 {
		t.Fatalf("cache not empty after ClearCache")
	}
	if _, err := reg.Load(ctx, "t1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}

	reg.Invalidate("t1")
	if reg.Cached("t1") {
		t.Fatalf("t1 still cached after Invalidate")
	}
}

func TestLoad_NotFound(t *testing.T) {
	reg := New(newCounting(nil))

	_, err := reg.Load(context.Background(), "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
	if nf.TemplateID != "missing" {
		t.Fatalf("TemplateID = %q", nf.TemplateID)
	}
	if !errors.Is(err, descriptor.ErrNotFound) {
		t.Fatalf("expected error chain to reach descriptor.ErrNotFound")
	}
	if reg.Cached("missing") {
		t.Fatalf("failed load must not be cached")
	}
}

func TestLoad_InvalidIsNotCached(t *testing.T) {
	src := newCounting(map[string]string{
		"broken": `{"metadata":{"id":"broken","name":"B"},"layout":{"type":"single-column"},"sections":[]}`,
		"t1":     validDoc,
	})
	reg := New(src)
	ctx := context.Background()

	_, err := reg.Load(ctx, "broken")
	var inv *InvalidConfigError
	if !errors.As(err, &inv) {
		t.Fatalf("expected *InvalidConfigError, got %T: %v", err, err)
	}
	if len(inv.Problems()) == 0 {
		t.Fatalf("expected validation problems")
	}
	if _, err := reg.Load(ctx, "broken"); err == nil {
		t.Fatalf("expected second load to fail again")
	}
	if got := src.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2 (failures are not cached)", got)
	}

	if _, err := reg.Load(ctx, "t1"); err != nil {
		t.Fatalf("other ids must be unaffected: %v", err)
	}
}

func TestLoad_FetchError(t *testing.T) {
	boom := errors.New("connection refused")
	reg := New(descriptor.SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, boom
	}))

	_, err := reg.Load(context.Background(), "t1")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestLoad_ConcurrentCallersShareFetch(t *testing.T) {
	src := newCounting(map[string]string{"t1": validDoc})
	reg := New(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Load(context.Background(), "t1"); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	wg.Wait()

	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	// Each caller either hit the cache or joined the single in-flight fetch;
	// a caller arriving after the fetch finished sees the cached entry.
	if got := src.calls.Load(); got < 1 || got > 16 {
		t.Fatalf("fetch calls = %d", got)
	}
}

func TestMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg := New(newCounting(map[string]string{"t1": validDoc}), WithMetrics(promReg))
	ctx := context.Background()

	_, _ = reg.Load(ctx, "t1")
	_, _ = reg.Load(ctx, "t1")
	_, _ = reg.Load(ctx, "nope")

	if got := testutil.ToFloat64(reg.metrics.hits); got != 1 {
		t.Fatalf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.metrics.misses); got != 2 {
		t.Fatalf("misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.metrics.failures.WithLabelValues(reasonNotFound)); got != 1 {
		t.Fatalf("not_found failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.metrics.cached); got != 1 {
		t.Fatalf("cached gauge = %v, want 1", got)
	}

	expected := `
# HELP resumetpl_registry_cached_templates Templates currently held in the cache.
# TYPE resumetpl_registry_cached_templates gauge
resumetpl_registry_cached_templates 1
`
	if err := testutil.GatherAndCompare(promReg, strings.NewReader(expected), "resumetpl_registry_cached_templates"); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestMetrics_DuplicateRegistrationDisablesMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	_ = New(newCounting(nil), WithMetrics(promReg))
	second := New(newCounting(nil), WithMetrics(promReg))
	if second.metrics != nil {
		t.Fatalf("expected metrics to be disabled on duplicate registration")
	}
	if _, err := second.Load(context.Background(), "x"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestList(t *testing.T) {
	reg := New(source.NewMemory(map[string][]byte{"t1": []byte(validDoc)}))
	got, err := reg.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []descriptor.Metadata{{ID: "t1", Name: "T"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}

	plain := New(descriptor.SourceFunc(func(context.Context, string) ([]byte, error) { return nil, nil }))
	if _, err := plain.List(context.Background()); err == nil {
		t.Fatalf("expected error for a source without List")
	}
}

// gatedSource blocks every fetch until release is closed.
type gatedSource struct {
	inner   descriptor.Source
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGated(docs map[string]string) *gatedSource {
	return &gatedSource{
		inner:   newCounting(docs),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.inner.Fetch(ctx, id)
}

func TestLoad_ClearDuringFetchIsNotOverwritten(t *testing.T) {
	for name, reset := range map[string]func(*Registry){
		"ClearCache": func(r *Registry) { r.ClearCache() },
		"Invalidate": func(r *Registry) { r.Invalidate("t1") },
	} {
		t.Run(name, func(t *testing.T) {
			src := newGated(map[string]string{"t1": validDoc})
			reg := New(src)

			errs := make(chan error, 1)
			go func() {
				_, err := reg.Load(context.Background(), "t1")
				errs <- err
			}()
			<-src.started
			reset(reg)
			close(src.release)

			if err := <-errs; err != nil {
				t.Fatalf("Load: %v", err)
			}
			if reg.Cached("t1") {
				t.Fatalf("load begun before the clear repopulated the cache: %v", reg.CachedIDs())
			}

			if _, err := reg.Load(context.Background(), "t1"); err != nil {
				t.Fatalf("Load after clear: %v", err)
			}
			if !reg.Cached("t1") {
				t.Fatalf("expected t1 cached after a fresh load")
			}
		})
	}
}

func TestLoad_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	src := newGated(map[string]string{"t1": validDoc})
	reg := New(src)

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := reg.Load(firstCtx, "t1")
		first <- err
	}()
	<-src.started

	second := make(chan error, 1)
	go func() {
		_, err := reg.Load(context.Background(), "t1")
		second <- err
	}()

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller error = %v, want context.Canceled", err)
	}
	close(src.release)

	if err := <-second; err != nil {
		t.Fatalf("second caller: %v", err)
	}
	if !reg.Cached("t1") {
		t.Fatalf("expected shared fetch to populate the cache")
	}
}
