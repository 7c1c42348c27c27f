package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-resumetpl/pkg/source"
)

func TestWatcher_ClearsCacheOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t1.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	src, err := source.NewDir(dir)
	require.NoError(t, err)
	reg := New(src)

	tpl, err := reg.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "T", tpl.Metadata.Name)

	changed := make(chan []string, 4)
	w, err := NewWatcher(reg, dir,
		WithDebounce(20*time.Millisecond),
		WithReloader(src),
		OnChange(func(paths []string) { changed <- paths }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	updated := strings.Replace(validDoc, `"name":"T"`, `"name":"Renamed"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case paths := <-changed:
		assert.Contains(t, paths, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	assert.False(t, reg.Cached("t1"))
	tpl, err = reg.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", tpl.Metadata.Name)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	assert.True(t, isDescriptorFile("a/b.YAML"))
	assert.True(t, isDescriptorFile("x.json"))
	assert.False(t, isDescriptorFile("notes.md"))
}

func TestNewWatcher_Validation(t *testing.T) {
	_, err := NewWatcher(nil, "dir")
	assert.Error(t, err)
	_, err = NewWatcher(New(nil), " ")
	assert.Error(t, err)
}
