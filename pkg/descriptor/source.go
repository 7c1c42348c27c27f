package descriptor

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) by a Source when no descriptor
// exists for the requested id.
var ErrNotFound = errors.New("descriptor: template not found")

// Source fetches raw descriptor documents by id. Implementations must honour
// ctx and return an error matching ErrNotFound for unknown ids so a missing
// template stays distinguishable from a broken one.
type Source interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Lister is implemented by sources that can enumerate their templates.
type Lister interface {
	List(ctx context.Context) ([]Metadata, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, id string) ([]byte, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}
