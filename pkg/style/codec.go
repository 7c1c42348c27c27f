package style

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON accepts string, number, and boolean values so descriptors can
// write `"fontWeight": 600` as well as `"fontWeight": "600"`. Nulls are
// dropped.
func (s *Style) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("style: decode: %w", err)
	}
	out, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML descriptors.
func (s *Style) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("style: decode: %w", err)
	}
	out, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func fromRaw(raw map[string]any) (Style, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(Style, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			out[key] = v
		case bool:
			out[key] = strconv.FormatBool(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			out[key] = strconv.Itoa(v)
		case int64:
			out[key] = strconv.FormatInt(v, 10)
		case uint64:
			out[key] = strconv.FormatUint(v, 10)
		default:
			return nil, fmt.Errorf("style: key %q: unsupported value type %T", key, value)
		}
	}
	return out, nil
}
