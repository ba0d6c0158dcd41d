package loam

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// BlueprintMetadata represents the header of a blueprint document.
// It uses "mapstructure" tags to match the Frontmatter/YAML keys of the compiler's document format.
type BlueprintMetadata struct {
	ID          string                        `json:"id" mapstructure:"id"`
	Generics    []string                      `json:"generics" mapstructure:"generics"`
	Delegates   []domain.DelegateDefinition   `json:"delegates" mapstructure:"delegates"`
	Operators   []domain.OperatorDefinition   `json:"operators" mapstructure:"operators"`
	Connections []domain.ConnectionDefinition `json:"connections" mapstructure:"connections"`

	// Wires is shorthand for connections: each entry maps a source reference to a sink reference.
	Wires map[string]string `json:"wires" mapstructure:"wires"`

	// General Metadata, nested keys are flattened with "-".
	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
}
