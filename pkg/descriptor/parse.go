package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a descriptor without validating it. JSON documents are
// detected by their leading brace; everything else is read as YAML.
func Parse(raw []byte) (*Template, error) {
	tpl, err := decodeTemplate(raw)
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// Load validates raw and then decodes it. This is the path every descriptor
// takes before it is rendered.
func Load(raw []byte) (*Template, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return Parse(raw)
}

func isJSON(trimmed []byte) bool {
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodeTemplate(raw []byte) (*Template, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("descriptor: document is empty")
	}

	var tpl Template
	if isJSON(trimmed) {
		if err := json.Unmarshal(trimmed, &tpl); err != nil {
			return nil, fmt.Errorf("descriptor: decode json: %w", err)
		}
		return &tpl, nil
	}
	if err := yaml.Unmarshal(trimmed, &tpl); err != nil {
		return nil, fmt.Errorf("descriptor: decode yaml: %w", err)
	}
	return &tpl, nil
}

func decodeGeneric(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("descriptor: document is empty")
	}

	var doc any
	if isJSON(trimmed) {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("descriptor: decode json: %w", err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("descriptor: decode yaml: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("descriptor: document must be an object, got %T", doc)
	}
	return doc, nil
}

// MarshalJSON encodes tpl in the canonical JSON form used by stores.
func MarshalJSON(tpl *Template) ([]byte, error) {
	if tpl == nil {
		return nil, errors.New("descriptor: template is nil")
	}
	data, err := json.Marshal(tpl)
	if err != nil {
		return nil, fmt.Errorf("descriptor: encode json: %w", err)
	}
	return data, nil
}
