package dto

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/types"
)

// Blueprint is the transport view of a compiled blueprint, shared by the HTTP API,
// the MCP server and the CLI.
type Blueprint struct {
	ID          string       `json:"id" yaml:"id"`
	Generics    []string     `json:"generics,omitempty" yaml:"generics,omitempty"`
	Delegates   []Delegate   `json:"delegates" yaml:"delegates"`
	Operators   []Operator   `json:"operators,omitempty" yaml:"operators,omitempty"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Delegate lists the ports of one interface.
type Delegate struct {
	Name  string `json:"name" yaml:"name"`
	Owner string `json:"owner" yaml:"owner"`
	Ports []Port `json:"ports" yaml:"ports"`
}

// Port describes a port with both its declared and its resolved type.
type Port struct {
	Path      string `json:"path" yaml:"path"`
	Direction string `json:"direction" yaml:"direction"`
	Type      string `json:"type" yaml:"type"`
	Resolved  string `json:"resolved" yaml:"resolved"`
	Reference string `json:"reference" yaml:"reference"`
}

// Operator describes a placed instance and its specialization.
type Operator struct {
	Name      string            `json:"name" yaml:"name"`
	Blueprint string            `json:"blueprint" yaml:"blueprint"`
	Generics  map[string]string `json:"generics,omitempty" yaml:"generics,omitempty"`
	Resolved  bool              `json:"resolved" yaml:"resolved"`
	Delegates []Delegate        `json:"delegates" yaml:"delegates"`
}

// Connection is a wire in reference form.
type Connection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// FromBlueprint builds the view of bp. Unresolved generics are shown as "?".
func FromBlueprint(bp *domain.Blueprint) Blueprint {
	view := Blueprint{
		ID:       bp.ID(),
		Generics: bp.Params(),
	}

	for _, d := range bp.Delegates() {
		view.Delegates = append(view.Delegates, fromDelegate(bp, d))
	}

	for _, op := range bp.Operators() {
		ov := Operator{
			Name:      op.Name(),
			Blueprint: op.Blueprint().ID(),
			Resolved:  op.Generics().IsResolved(),
		}
		if snapshot := op.Generics().Snapshot(); len(snapshot) > 0 {
			ov.Generics = snapshot
		}
		for _, d := range op.Delegates() {
			ov.Delegates = append(ov.Delegates, fromDelegate(bp, d))
		}
		view.Operators = append(view.Operators, ov)
	}

	for _, c := range bp.Connections() {
		view.Connections = append(view.Connections, Connection{
			From: c.From.String(),
			To:   c.To.String(),
		})
	}
	return view
}

func fromDelegate(bp *domain.Blueprint, d *domain.Delegate) Delegate {
	dv := Delegate{
		Name:  d.Name(),
		Owner: d.Kind().String(),
		Ports: []Port{},
	}
	for _, p := range d.Ports() {
		pv := Port{
			Path:      p.Path(),
			Direction: p.Direction().String(),
			Type:      typeName(p.Type()),
			Resolved:  typeName(p.ResolvedType()),
		}
		if ref, err := bp.ReferenceOf(p); err == nil {
			pv.Reference = ref.String()
		}
		dv.Ports = append(dv.Ports, pv)
	}
	return dv
}

func typeName(t types.Type) string {
	if t == nil {
		return types.Placeholder.Name()
	}
	return t.Name()
}
