package registry

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

// NotFoundError reports that the source has no descriptor for TemplateID.
type NotFoundError struct {
	TemplateID string
	Cause      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registry: template %q not found", e.TemplateID)
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

// InvalidConfigError reports a descriptor that failed validation or decoding.
type InvalidConfigError struct {
	TemplateID string
	Cause      error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("registry: template %q is invalid: %v", e.TemplateID, e.Cause)
}

func (e *InvalidConfigError) Unwrap() error { return e.Cause }

// Problems returns the validation problems when the cause carries them.
func (e *InvalidConfigError) Problems() []descriptor.Problem {
	var vErr *descriptor.ValidationError
	if errors.As(e.Cause, &vErr) {
		return vErr.Problems
	}
	return nil
}

// FetchError reports a source failure other than not-found.
type FetchError struct {
	TemplateID string
	Cause      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("registry: fetch template %q: %v", e.TemplateID, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// failure reasons used as metric labels.
const (
	reasonNotFound = "not_found"
	reasonInvalid  = "invalid"
	reasonFetch    = "fetch"
)

func reasonOf(err error) string {
	var nf *NotFoundError
	var inv *InvalidConfigError
	switch {
	case errors.As(err, &nf):
		return reasonNotFound
	case errors.As(err, &inv):
		return reasonInvalid
	default:
		return reasonFetch
	}
}
