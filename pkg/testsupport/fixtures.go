package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/resume"
)

// FixturePath resolves name inside this package's testdata directory so
// tests in any package can share the same fixtures.
func FixturePath(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// LoadResume reads a JSON or YAML résumé fixture.
func LoadResume(t *testing.T, path string) resume.Data {
	t.Helper()

	data, err := LoadResumeFromPath(path)
	if err != nil {
		t.Fatalf("load resume: %v", err)
	}
	return data
}

// LoadResumeFromPath returns résumé data without requiring testing.T.
func LoadResumeFromPath(path string) (resume.Data, error) {
	if path == "" {
		return resume.Data{}, errors.New("testsupport: resume path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return resume.Data{}, fmt.Errorf("testsupport: read resume: %w", err)
	}
	data, err := resume.Parse(raw)
	if err != nil {
		return resume.Data{}, fmt.Errorf("testsupport: parse resume: %w", err)
	}
	return data, nil
}

// LoadTemplate reads a descriptor fixture and validates it.
func LoadTemplate(t *testing.T, path string) *descriptor.Template {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	tpl, err := descriptor.Load(raw)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	return tpl
}

// MustReadFile returns the raw bytes of a fixture.
func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got against the JSON golden at path. The golden is
// decoded into a value of the same type as got before diffing.
func AssertGolden[T any](t *testing.T, path string, got T) {
	t.Helper()

	if WriteGolden(t, path, got) {
		return
	}
	raw := MustReadFile(t, path)
	var want T
	if err := json.Unmarshal(raw, &want); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	if diff := CompareGolden(want, got); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
