package testsupport

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type entityDoc struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LoadEntities decodes a YAML fixture into memstore entities. The fixture is
// a sequence of documents carrying kind, id, and name:
//
//	- kind: author
//	  id: a1
//	  name: Ada Lovelace
func LoadEntities(data []byte) ([]*Entity, error) {
	var docs []entityDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal entities: %w", err)
	}

	out := make([]*Entity, 0, len(docs))
	for i, doc := range docs {
		kind := strings.TrimSpace(doc.Kind)
		id := strings.TrimSpace(doc.ID)
		if kind == "" || id == "" {
			return nil, fmt.Errorf("testsupport: entity %d: kind and id are required", i)
		}
		out = append(out, &Entity{
			K:    Key{Kind: kind, ID: id},
			Name: strings.TrimSpace(doc.Name),
		})
	}
	return out, nil
}

// LoadEntitiesFromPath reads and decodes a fixture file.
func LoadEntitiesFromPath(path string) ([]*Entity, error) {
	if path == "" {
		return nil, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return LoadEntities(data)
}

// MustLoadStore builds a store from a fixture file, failing the test on any
// error to keep contract tests concise.
func MustLoadStore(t *testing.T, path string) *Store {
	t.Helper()

	entities, err := LoadEntitiesFromPath(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return NewStore(entities...)
}
