package rules

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"automapper/internal/descriptor"
)

// File represents the root of a YAML rule definition file.
// This is the declarative, human-reviewed mapping configuration.
type File struct {
	// Version of the rule schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Mappings is a list of type pair rule sets.
	Mappings []TypeMapping `yaml:"mappings"`
}

// TypeMapping defines the rules for mapping one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g. "store.Order").
	Source string `yaml:"source"`

	// Target type identifier (e.g. "warehouse.Order").
	Target string `yaml:"target"`

	// Fields maps source field names to the target fields they feed.
	// Example: { "Name": "FullName", "Birthday": "DateOfBirth" }
	Fields map[string]string `yaml:"fields,omitempty"`

	// Ignore lists target fields that must never be assigned.
	Ignore []string `yaml:"ignore,omitempty"`
}

// ErrEmptyRuleFile is returned when a rule file declares no mappings.
var ErrEmptyRuleFile = errors.New("rule file declares no mappings")

// Parse decodes a YAML rule file and performs structural validation.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}

	if len(f.Mappings) == 0 {
		return nil, ErrEmptyRuleFile
	}

	for i, m := range f.Mappings {
		if m.Source == "" || m.Target == "" {
			return nil, fmt.Errorf("mapping %d: source and target are required", i)
		}
	}

	return &f, nil
}

// Apply resolves the file's type identifiers against reg and writes the
// rename and ignore rules into store. Unknown type or field names fail
// before any rule of the offending mapping is applied; earlier mappings
// remain applied.
func (f *File) Apply(reg *TypeRegistry, store *Store) error {
	for _, m := range f.Mappings {
		src, ok := reg.Lookup(m.Source)
		if !ok {
			return fmt.Errorf("mapping %s -> %s: unknown source type %q", m.Source, m.Target, m.Source)
		}

		dst, ok := reg.Lookup(m.Target)
		if !ok {
			return fmt.Errorf("mapping %s -> %s: unknown target type %q", m.Source, m.Target, m.Target)
		}

		pair := PairOf(src, dst)

		for srcField, dstField := range m.Fields {
			if !descriptor.HasField(src, srcField) {
				return fmt.Errorf("mapping %s: no field %q in source type %s", pair, srcField, m.Source)
			}

			if !descriptor.HasField(dst, dstField) {
				return fmt.Errorf("mapping %s: no field %q in target type %s", pair, dstField, m.Target)
			}
		}

		for _, dstField := range m.Ignore {
			if !descriptor.HasField(dst, dstField) {
				return fmt.Errorf("mapping %s: no field %q in target type %s", pair, dstField, m.Target)
			}
		}

		for srcField, dstField := range m.Fields {
			store.SetRename(pair, dstField, srcField)
		}

		for _, dstField := range m.Ignore {
			store.SetIgnored(pair, dstField)
		}
	}

	return nil
}
