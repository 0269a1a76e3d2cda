// Package config provides configuration management for the ngsreports tool.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ngsreports/internal/model"
)

//go:embed modules.yaml
var defaultModulesYAML []byte

// LoadModules reads FastQC module definitions from the specified YAML file.
// An empty path loads the embedded default definitions, which cover the
// twelve modules FastQC 0.10-0.11 emits.
func LoadModules(modulesPath string) ([]*model.ModuleDefinition, error) {
	data := defaultModulesYAML
	if modulesPath != "" {
		if _, err := os.Stat(modulesPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("modules file not found: %s", modulesPath)
		}
		content, err := os.ReadFile(modulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read modules file: %w", err)
		}
		data = content
	}

	var cfg model.ModulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse modules file: %w", err)
	}

	if len(cfg.Modules) == 0 {
		return nil, fmt.Errorf("no modules defined")
	}

	// Validate each module definition
	seen := make(map[string]bool, len(cfg.Modules))
	for i, m := range cfg.Modules {
		if m.Name == "" {
			return nil, fmt.Errorf("module at index %d has no name", i)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("module %q defined twice", m.Name)
		}
		seen[m.Name] = true

		switch m.Kind {
		case model.ModuleKindPosition, model.ModuleKindCategory, model.ModuleKindKeyValue:
		default:
			return nil, fmt.Errorf("module %q has unknown kind %q", m.Name, m.Kind)
		}

		for _, c := range m.Columns {
			if err := validColumnType(c.Type); err != nil {
				return nil, fmt.Errorf("module %q column %q: %w", m.Name, c.Name, err)
			}
		}
		if m.DefaultType != "" {
			if err := validColumnType(m.DefaultType); err != nil {
				return nil, fmt.Errorf("module %q default_type: %w", m.Name, err)
			}
		}
		if m.WeightColumn != "" && m.ValueColumn == "" {
			return nil, fmt.Errorf("module %q sets weight_column without value_column", m.Name)
		}
	}

	return cfg.Modules, nil
}

// validColumnType checks a declared column type token.
func validColumnType(t model.ColumnType) error {
	switch t {
	case model.ColumnString, model.ColumnInt, model.ColumnFloat:
		return nil
	default:
		return fmt.Errorf("unknown column type %q", t)
	}
}

// ModuleIndex builds a name lookup over module definitions.
func ModuleIndex(modules []*model.ModuleDefinition) map[string]*model.ModuleDefinition {
	index := make(map[string]*model.ModuleDefinition, len(modules))
	for _, m := range modules {
		index[m.Name] = m
	}
	return index
}

// CountRequiredModules returns how many modules must be present for a parse
// to succeed.
func CountRequiredModules(modules []*model.ModuleDefinition) int {
	count := 0
	for _, m := range modules {
		if m.Required {
			count++
		}
	}
	return count
}
