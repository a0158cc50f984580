package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is a configuration together with the id it was declared under.
type Entry struct {
	ID            string `validate:"required"`
	Configuration `yaml:",inline"`
}

// Entries is the configurations mapping with document order preserved.
// A plain Go map would lose the order that fixes action indices.
type Entries []Entry

var configurationKeys = map[string]bool{
	"incurring_cost":  true,
	"recurring_cost":  true,
	"production_rate": true,
	"setup_time":      true,
}

// UnmarshalYAML walks the mapping node pair by pair. Node.Decode does not
// inherit the parent decoder's KnownFields setting, so keys are checked here.
func (e *Entries) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: configurations must be a mapping of id to configuration", value.Line)
	}
	seen := make(map[string]bool, len(value.Content)/2)
	out := make(Entries, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		id := keyNode.Value
		if seen[id] {
			return fmt.Errorf("line %d: duplicate configuration id %q", keyNode.Line, id)
		}
		seen[id] = true

		if valNode.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: configuration %q must be a mapping", valNode.Line, id)
		}
		for j := 0; j+1 < len(valNode.Content); j += 2 {
			if k := valNode.Content[j]; !configurationKeys[k.Value] {
				return fmt.Errorf("line %d: configuration %q: unknown field %q", k.Line, id, k.Value)
			}
		}

		var cfg Configuration
		if err := valNode.Decode(&cfg); err != nil {
			return fmt.Errorf("configuration %q: %w", id, err)
		}
		out = append(out, Entry{ID: id, Configuration: cfg})
	}
	*e = out
	return nil
}
