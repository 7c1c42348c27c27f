package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

const minimalDoc = `{"metadata":{"id":"t1","name":"T"},"layout":{"type":"single-column"},"sections":[],"theme":{}}`

func TestMemory_FetchAndList(t *testing.T) {
	ctx := context.Background()
	src := NewMemory(map[string][]byte{"t1": []byte(minimalDoc)})

	raw, err := src.Fetch(ctx, "t1")
	require.NoError(t, err)
	assert.JSONEq(t, minimalDoc, string(raw))

	_, err = src.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, descriptor.ErrNotFound)

	src.Put("broken", []byte("{not json"))
	list, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].ID)

	src.Delete("t1")
	_, err = src.Fetch(ctx, "t1")
	assert.ErrorIs(t, err, descriptor.ErrNotFound)
}

func TestMemory_FetchHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory(nil).Fetch(ctx, "t1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFS_IndexesByMetadataID(t *testing.T) {
	fsys := fstest.MapFS{
		"a/first.json":  {Data: []byte(minimalDoc)},
		"b/second.yaml": {Data: []byte("metadata:\n  id: t2\n  name: Two\nlayout:\n  type: two-column\nsections: []\ntheme: {}\n")},
		"nameless.yml":  {Data: []byte("layout:\n  type: single-column\n")},
		"notes.txt":     {Data: []byte("ignored")},
	}

	src, err := NewFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"nameless", "t1", "t2"}, src.IDs())

	raw, err := src.Fetch(context.Background(), "t2")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "two-column")

	path, ok := src.Path("t1")
	require.True(t, ok)
	assert.Equal(t, "a/first.json", path)

	_, err = src.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, descriptor.ErrNotFound)

	list, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestFS_DuplicateIDIsAnError(t *testing.T) {
	fsys := fstest.MapFS{
		"one.json": {Data: []byte(minimalDoc)},
		"two.json": {Data: []byte(minimalDoc)},
	}
	_, err := NewFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestFS_PatternsAndExcludes(t *testing.T) {
	fsys := fstest.MapFS{
		"live/t1.json":   {Data: []byte(minimalDoc)},
		"drafts/t1.json": {Data: []byte(minimalDoc)},
	}
	src, err := NewFS(fsys, WithPatterns("**/*.json"), WithExcludes("drafts/**"))
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, src.IDs())
}

func TestNewDir_ReloadPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t1.json"), []byte(minimalDoc), 0o644))

	src, err := NewDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, src.IDs())

	second := `{"metadata":{"id":"t2","name":"Two"},"layout":{"type":"single-column"},"sections":[],"theme":{}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t2.json"), []byte(second), 0o644))
	require.NoError(t, src.Reload())
	assert.Equal(t, []string{"t1", "t2"}, src.IDs())

	_, err = NewDir(filepath.Join(dir, "t1.json"))
	assert.Error(t, err)
}

func TestEmbedded_AllTemplatesValidate(t *testing.T) {
	src := Embedded()
	ids := src.IDs()
	assert.Equal(t, []string{"clean-impact", "executive-three-column", "modern-professional", "modern-two-column"}, ids)

	for _, id := range ids {
		raw, err := src.Fetch(context.Background(), id)
		require.NoError(t, err, id)
		tpl, err := descriptor.Load(raw)
		require.NoError(t, err, id)
		assert.Equal(t, id, tpl.Metadata.ID)
	}
}

func TestHTTP_FetchMapsStatus(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Path)
		mu.Unlock()
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		switch r.URL.Path {
		case "/templates":
			_, _ = w.Write([]byte(`{"templates":[{"id":"t1","name":"T"}]}`))
		case "/templates/t1":
			_, _ = w.Write([]byte(minimalDoc))
		case "/templates/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	src, err := NewHTTP(server.URL+"/templates", WithHTTPClient(server.Client()), WithHeader("X-Token", "secret"))
	require.NoError(t, err)

	raw, err := src.Fetch(context.Background(), "t1")
	require.NoError(t, err)
	assert.JSONEq(t, minimalDoc, string(raw))

	_, err = src.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, descriptor.ErrNotFound)

	_, err = src.Fetch(context.Background(), "boom")
	require.Error(t, err)
	assert.False(t, errors.Is(err, descriptor.ErrNotFound))

	list, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T", list[0].Name)

	for _, id := range []string{"../../admin/secrets", "a/b", "..", ".", `a\b`, "t1/../boom"} {
		_, err := src.Fetch(context.Background(), id)
		assert.ErrorIs(t, err, descriptor.ErrNotFound, id)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/templates/t1", "/templates/missing", "/templates/boom", "/templates"}, seen)
}

func TestNewHTTP_RejectsBadScheme(t *testing.T) {
	_, err := NewHTTP("ftp://example.com")
	assert.Error(t, err)
}

func TestChain_FallsThroughOnNotFound(t *testing.T) {
	first := NewMemory(nil)
	second := NewMemory(map[string][]byte{"t1": []byte(minimalDoc)})
	chain := Chain{first, second}

	raw, err := chain.Fetch(context.Background(), "t1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	_, err = chain.Fetch(context.Background(), "t9")
	assert.ErrorIs(t, err, descriptor.ErrNotFound)

	failing := descriptor.SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection refused")
	})
	_, err = Chain{failing, second}.Fetch(context.Background(), "t1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	first.Put("t1", []byte(minimalDoc))
	list, err := chain.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
