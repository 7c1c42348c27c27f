package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// Chain consults sources in order. A not-found answer moves on to the next
// source; any other error stops the lookup.
type Chain []descriptor.Source

var (
	_ descriptor.Source = Chain(nil)
	_ descriptor.Lister = Chain(nil)
)

// Fetch implements descriptor.Source.
func (c Chain) Fetch(ctx context.Context, id string) ([]byte, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		raw, err := src.Fetch(ctx, id)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, descriptor.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("source: chain %q: %w", id, descriptor.ErrNotFound)
}

// List merges listings of every Lister in the chain. An id listed by an
// earlier source shadows later ones, matching Fetch.
func (c Chain) List(ctx context.Context) ([]descriptor.Metadata, error) {
	seen := make(map[string]struct{})
	var out []descriptor.Metadata
	for _, src := range c {
		lister, ok := src.(descriptor.Lister)
		if !ok {
			continue
		}
		items, err := lister.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, meta := range items {
			if _, dup := seen[meta.ID]; dup {
				continue
			}
			seen[meta.ID] = struct{}{}
			out = append(out, meta)
		}
	}
	return out, nil
}
