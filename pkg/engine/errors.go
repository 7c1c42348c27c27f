package engine

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-resumetpl/pkg/registry"
)

// State is a step of a single render call.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateValidated State = "validated"
	StateComposing State = "composing"
	StateRendered  State = "rendered"
	StateNotFound  State = "not-found"
	StateInvalid   State = "invalid"
	StateFailed    State = "failed"
)

// RenderError is returned by Render when the template cannot be produced.
// State is the terminal state of the call; Cause carries the registry error.
type RenderError struct {
	TemplateID string
	State      State
	Cause      error
}

func (e *RenderError) Error() string {
	switch e.State {
	case StateNotFound:
		return fmt.Sprintf("engine: template %q not found", e.TemplateID)
	case StateInvalid:
		return fmt.Sprintf("engine: template %q is invalid: %v", e.TemplateID, e.Cause)
	default:
		return fmt.Sprintf("engine: render template %q: %v", e.TemplateID, e.Cause)
	}
}

func (e *RenderError) Unwrap() error { return e.Cause }

// IsNotFound reports whether err is a render failure for an unknown template.
func IsNotFound(err error) bool {
	var rErr *RenderError
	return errors.As(err, &rErr) && rErr.State == StateNotFound
}

// IsInvalid reports whether err is a render failure for an invalid template.
func IsInvalid(err error) bool {
	var rErr *RenderError
	return errors.As(err, &rErr) && rErr.State == StateInvalid
}

func loadError(id string, err error) *RenderError {
	var nf *registry.NotFoundError
	var inv *registry.InvalidConfigError
	switch {
	case errors.As(err, &nf):
		return &RenderError{TemplateID: id, State: StateNotFound, Cause: err}
	case errors.As(err, &inv):
		return &RenderError{TemplateID: id, State: StateInvalid, Cause: err}
	default:
		return &RenderError{TemplateID: id, State: StateFailed, Cause: err}
	}
}
