// Package model provides data models for the ngsreports tool.
package model

// ModuleKind describes the row shape of a FastQC module table.
type ModuleKind string

const (
	ModuleKindPosition ModuleKind = "position" // rows keyed by a base position or range
	ModuleKindCategory ModuleKind = "category" // rows keyed by a category label
	ModuleKindKeyValue ModuleKind = "keyvalue" // Measure/Value pairs (Basic Statistics)
)

// ColumnDefinition declares the expected type for one column of a known
// module. Header columns without a definition fall back to string.
type ColumnDefinition struct {
	Name string     `yaml:"name" json:"name"`
	Type ColumnType `yaml:"type" json:"type"`
}

// ModuleDefinition defines the metadata for a FastQC module, loaded from
// modules.yaml.
type ModuleDefinition struct {
	Name         string             `yaml:"name" json:"name"`                                       // module name as it appears after ">>"
	Kind         ModuleKind         `yaml:"kind" json:"kind"`                                       // row shape
	Required     bool               `yaml:"required,omitempty" json:"required,omitempty"`           // parse fails if the module is absent
	Columns      []ColumnDefinition `yaml:"columns,omitempty" json:"columns,omitempty"`             // typed columns
	DefaultType  ColumnType         `yaml:"default_type,omitempty" json:"default_type,omitempty"`   // type for unlisted header columns (e.g. adapter names)
	ValueColumn  string             `yaml:"value_column,omitempty" json:"value_column,omitempty"`   // column fed to threshold classification
	WeightColumn string             `yaml:"weight_column,omitempty" json:"weight_column,omitempty"` // weights for the value-column mean
	Scalars      []string           `yaml:"scalars,omitempty" json:"scalars,omitempty"`             // extra "#Name\tvalue" annotation lines
	Note         string             `yaml:"note,omitempty" json:"note,omitempty"`
}

// IsPositional returns true when rows are keyed by a base position or range.
func (d *ModuleDefinition) IsPositional() bool {
	return d.Kind == ModuleKindPosition
}

// ColumnType returns the declared type for the named header column. Unlisted
// columns take the module's default type, or string when none is set.
func (d *ModuleDefinition) ColumnType(name string) ColumnType {
	for _, c := range d.Columns {
		if c.Name == name {
			return c.Type
		}
	}
	if d.DefaultType != "" {
		return d.DefaultType
	}
	return ColumnString
}

// HasScalar returns true if the module declares the named annotation scalar.
func (d *ModuleDefinition) HasScalar(name string) bool {
	for _, s := range d.Scalars {
		if s == name {
			return true
		}
	}
	return false
}

// ModulesConfig represents the root structure of the modules.yaml file.
type ModulesConfig struct {
	Modules []*ModuleDefinition `yaml:"modules" json:"modules"`
}
