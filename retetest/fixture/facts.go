package fixture

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/latticeforge/rete"
)

// factDoc is the YAML shape a fact fixture file decodes into, grounded
// on the teacher's harness.Scenario strict-field-validation discipline.
type factDoc struct {
	Facts []factEntry `yaml:"facts"`
}

type factEntry struct {
	Type   string         `yaml:"type"`
	Fields map[string]any `yaml:"fields"`
}

// LoadFacts parses a fact fixture document into a slice of rete.Fact,
// each fact's Value being a rete.Object built from its fields.
func LoadFacts(data []byte) ([]rete.Fact, error) {
	var doc factDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("fixture: parse fact document: %w", err)
	}
	facts := make([]rete.Fact, len(doc.Facts))
	for i, e := range doc.Facts {
		if e.Type == "" {
			return nil, fmt.Errorf("fixture: facts[%d]: type is required", i)
		}
		obj, err := ToValue(e.Fields)
		if err != nil {
			return nil, fmt.Errorf("fixture: facts[%d]: %w", i, err)
		}
		facts[i] = rete.NewFact(rete.FactType(e.Type), obj)
	}
	return facts, nil
}

// LoadFactsFile reads and parses a fact fixture file from disk.
func LoadFactsFile(path string) ([]rete.Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	return LoadFacts(data)
}
