package compiler

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw bytes into a Definition.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML or JSON blueprint document.
// Unknown keys are rejected so that typos do not silently drop ports or wires.
func (p *Parser) Parse(data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse blueprint: empty document")
	}
	return p.Decode(raw)
}

// Decode maps an already-unmarshalled document onto a Definition.
func (p *Parser) Decode(raw map[string]any) (*domain.Definition, error) {
	var def domain.Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode blueprint: %w", err)
	}

	if def.ID == "" {
		return nil, fmt.Errorf("blueprint missing ID")
	}
	return &def, nil
}
