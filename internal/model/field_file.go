package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of an alias-table override. The alias
// table is configuration data so the header vocabulary can grow without
// touching pipeline code.
type aliasFile struct {
	Aliases   map[string]CanonicalField `yaml:"aliases"`
	Mandatory []CanonicalField          `yaml:"mandatory"`
}

// LoadRegistryFile reads a YAML alias table and builds a registry from it.
// Entries extend the built-in table; an empty or absent mandatory list
// keeps every canonical field mandatory. Ambiguous tables fail here, at
// startup, with ErrAmbiguousAlias in the chain.
func LoadRegistryFile(path string) (*FieldRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "field: read alias file %s", path)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "field: parse alias file %s", path)
	}

	known := make(map[CanonicalField]bool)
	for _, cf := range AllFields() {
		known[cf] = true
	}

	merged := make(map[string]CanonicalField, len(defaultAliases)+len(f.Aliases))
	for k, v := range defaultAliases {
		merged[k] = v
	}
	for k, v := range f.Aliases {
		if !known[v] {
			return nil, eris.Errorf("field: alias %q names unknown field %q", k, v)
		}
		merged[k] = v
	}

	mandatory := f.Mandatory
	if len(mandatory) == 0 {
		mandatory = AllFields()
	} else {
		for _, cf := range mandatory {
			if !known[cf] {
				return nil, eris.Errorf("field: mandatory list names unknown field %q", cf)
			}
		}
	}

	return NewFieldRegistry(merged, mandatory)
}
