// Package source provides descriptor.Source implementations: in-memory maps,
// file systems (including the embedded defaults), HTTP endpoints, and a
// Postgres templates table.
package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// Memory serves descriptors from a map keyed by template id.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var (
	_ descriptor.Source = (*Memory)(nil)
	_ descriptor.Lister = (*Memory)(nil)
)

// NewMemory copies docs into a new Memory source.
func NewMemory(docs map[string][]byte) *Memory {
	m := &Memory{docs: make(map[string][]byte, len(docs))}
	for id, raw := range docs {
		m.docs[strings.TrimSpace(id)] = append([]byte(nil), raw...)
	}
	return m
}

// Put stores or replaces the document for id.
func (m *Memory) Put(id string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[strings.TrimSpace(id)] = append([]byte(nil), raw...)
}

// Delete removes the document for id.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, strings.TrimSpace(id))
}

// Fetch implements descriptor.Source.
func (m *Memory) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.docs[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("source: memory %q: %w", id, descriptor.ErrNotFound)
	}
	return append([]byte(nil), raw...), nil
}

// List implements descriptor.Lister. Documents that do not parse are skipped.
func (m *Memory) List(ctx context.Context) ([]descriptor.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)

	out := make([]descriptor.Metadata, 0, len(ids))
	for _, id := range ids {
		raw, err := m.Fetch(ctx, id)
		if err != nil {
			continue
		}
		tpl, err := descriptor.Parse(raw)
		if err != nil {
			continue
		}
		meta := tpl.Metadata
		if meta.ID == "" {
			meta.ID = id
		}
		out = append(out, meta)
	}
	return out, nil
}
