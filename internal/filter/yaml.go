package filter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a spec from an ordered YAML mapping of filter keys to
// values, preserving the order of the keys:
//
//	type: file
//	name//: "\\.log$"
//	size>=: 1M
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("(filter-yaml) line %d: %w: expected a mapping of filters", node.Line, ErrInvalidValue)
	}

	spec := make(Spec, 0, len(node.Content)/2) //nolint:mnd

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("(filter-yaml) line %d: %w: %q must be a scalar", value.Line, ErrInvalidValue, key.Value)
		}

		f, err := FromKey(key.Value, value.Value)
		if err != nil {
			return fmt.Errorf("(filter-yaml) line %d: %w", key.Line, err)
		}

		spec = append(spec, f)
	}

	*s = spec

	return nil
}

// LoadFile reads a spec from a YAML file.
func LoadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("(filter-yaml) failed to read: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("(filter-yaml) failed to decode %s: %w", path, err)
	}

	return spec, nil
}
