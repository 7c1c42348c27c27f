package resumetpl

import (
	"io/fs"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/registry"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/source"
)

// NewRegistry constructs a template registry over src.
func NewRegistry(src descriptor.Source, options ...registry.Option) *registry.Registry {
	return registry.New(src, options...)
}

// ParseTemplate validates and decodes a JSON or YAML descriptor.
func ParseTemplate(raw []byte) (*Template, error) {
	return descriptor.Load(raw)
}

// ValidateTemplate reports every structural problem in raw.
func ValidateTemplate(raw []byte) error {
	return descriptor.Validate(raw)
}

// ParseResume decodes JSON or YAML résumé data.
func ParseResume(raw []byte) (Resume, error) {
	return resume.Parse(raw)
}

// EmbeddedTemplates exposes the built-in descriptor files so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return source.EmbeddedFS()
}

// DescriptorSchema returns the JSON Schema descriptors are validated against.
func DescriptorSchema() []byte {
	return descriptor.SchemaJSON()
}
