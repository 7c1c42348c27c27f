package source

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed templates/*.json templates/*.yaml
var embeddedTemplates embed.FS

var (
	embeddedOnce sync.Once
	embeddedSrc  *FS
	embeddedErr  error
)

// EmbeddedFS exposes the built-in descriptor files rooted at their directory.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Errorf("source: embedded templates: %w", err))
	}
	return sub
}

// Embedded returns the source serving the built-in templates: clean-impact,
// modern-professional, modern-two-column, and executive-three-column.
func Embedded() *FS {
	embeddedOnce.Do(func() {
		embeddedSrc, embeddedErr = NewFS(EmbeddedFS())
	})
	if embeddedErr != nil {
		panic(fmt.Errorf("source: embedded templates: %w", embeddedErr))
	}
	return embeddedSrc
}
