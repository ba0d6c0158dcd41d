package domain

// Definition is the storage form of a blueprint, as read from a document.
// Connections are kept as reference strings.
type Definition struct {
	ID          string                 `json:"id" yaml:"id" mapstructure:"id"`
	Generics    []string               `json:"generics,omitempty" yaml:"generics,omitempty" mapstructure:"generics"`
	Delegates   []DelegateDefinition   `json:"delegates,omitempty" yaml:"delegates,omitempty" mapstructure:"delegates"`
	Operators   []OperatorDefinition   `json:"operators,omitempty" yaml:"operators,omitempty" mapstructure:"operators"`
	Connections []ConnectionDefinition `json:"connections,omitempty" yaml:"connections,omitempty" mapstructure:"connections"`

	// Metadata allows for extensible key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" mapstructure:"metadata"`
}

// DelegateDefinition describes a delegate; the empty name is the main interface.
type DelegateDefinition struct {
	Name  string           `json:"name" yaml:"name" mapstructure:"name"`
	Ports []PortDefinition `json:"ports,omitempty" yaml:"ports,omitempty" mapstructure:"ports"`
}

// PortDefinition describes one port of a delegate.
type PortDefinition struct {
	Path      string `json:"path" yaml:"path" mapstructure:"path"`
	Direction string `json:"direction" yaml:"direction" mapstructure:"direction"` // "in" or "out"
	Type      string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// OperatorDefinition places another blueprint, optionally specialized.
type OperatorDefinition struct {
	Name      string            `json:"name" yaml:"name" mapstructure:"name"`
	Blueprint string            `json:"blueprint" yaml:"blueprint" mapstructure:"blueprint"`
	Generics  map[string]string `json:"generics,omitempty" yaml:"generics,omitempty" mapstructure:"generics"`
}

// ConnectionDefinition is a persisted wire.
type ConnectionDefinition struct {
	From string `json:"from" yaml:"from" mapstructure:"from"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// Dependencies returns the distinct blueprint IDs placed as operators, in order.
func (d *Definition) Dependencies() []string {
	seen := make(map[string]bool, len(d.Operators))
	var out []string
	for _, op := range d.Operators {
		if seen[op.Blueprint] {
			continue
		}
		seen[op.Blueprint] = true
		out = append(out, op.Blueprint)
	}
	return out
}
