package dsl

import "github.com/aretw0/lattice/pkg/domain"

// BlueprintBuilder provides a fluent API for configuring one blueprint.
type BlueprintBuilder struct {
	def     domain.Definition
	builder *Builder
}

// Generics declares the blueprint's generic parameters.
func (bb *BlueprintBuilder) Generics(names ...string) *BlueprintBuilder {
	bb.def.Generics = append(bb.def.Generics, names...)
	return bb
}

// In adds an input port to the main interface.
func (bb *BlueprintBuilder) In(path, typ string) *BlueprintBuilder {
	d := bb.delegate("")
	d.Ports = append(d.Ports, domain.PortDefinition{Path: path, Direction: "in", Type: typ})
	return bb
}

// Out adds an output port to the main interface.
func (bb *BlueprintBuilder) Out(path, typ string) *BlueprintBuilder {
	d := bb.delegate("")
	d.Ports = append(d.Ports, domain.PortDefinition{Path: path, Direction: "out", Type: typ})
	return bb
}

// Delegate starts (or resumes) a named boundary delegate.
func (bb *BlueprintBuilder) Delegate(name string) *DelegateBuilder {
	bb.delegate(name)
	return &DelegateBuilder{name: name, parent: bb}
}

// Place adds an operator instantiating the blueprint with the given ID.
func (bb *BlueprintBuilder) Place(name, blueprint string) *BlueprintBuilder {
	bb.def.Operators = append(bb.def.Operators, domain.OperatorDefinition{
		Name:      name,
		Blueprint: blueprint,
	})
	return bb
}

// Specialize binds a generic parameter of a placed operator.
func (bb *BlueprintBuilder) Specialize(operator, param, typ string) *BlueprintBuilder {
	for i := range bb.def.Operators {
		op := &bb.def.Operators[i]
		if op.Name != operator {
			continue
		}
		if op.Generics == nil {
			op.Generics = make(map[string]string)
		}
		op.Generics[param] = typ
		return bb
	}
	bb.builder.fail("%s: specialize unknown operator %q", bb.def.ID, operator)
	return bb
}

// Wire connects two ports given as reference strings.
func (bb *BlueprintBuilder) Wire(from, to string) *BlueprintBuilder {
	bb.def.Connections = append(bb.def.Connections, domain.ConnectionDefinition{From: from, To: to})
	return bb
}

// Meta attaches a metadata entry.
func (bb *BlueprintBuilder) Meta(key, value string) *BlueprintBuilder {
	if bb.def.Metadata == nil {
		bb.def.Metadata = make(map[string]string)
	}
	bb.def.Metadata[key] = value
	return bb
}

func (bb *BlueprintBuilder) delegate(name string) *domain.DelegateDefinition {
	for i := range bb.def.Delegates {
		if bb.def.Delegates[i].Name == name {
			return &bb.def.Delegates[i]
		}
	}
	bb.def.Delegates = append(bb.def.Delegates, domain.DelegateDefinition{Name: name})
	return &bb.def.Delegates[len(bb.def.Delegates)-1]
}

// DelegateBuilder adds ports to a named boundary delegate.
type DelegateBuilder struct {
	name   string
	parent *BlueprintBuilder
}

// In adds an input port.
func (db *DelegateBuilder) In(path, typ string) *DelegateBuilder {
	d := db.parent.delegate(db.name)
	d.Ports = append(d.Ports, domain.PortDefinition{Path: path, Direction: "in", Type: typ})
	return db
}

// Out adds an output port.
func (db *DelegateBuilder) Out(path, typ string) *DelegateBuilder {
	d := db.parent.delegate(db.name)
	d.Ports = append(d.Ports, domain.PortDefinition{Path: path, Direction: "out", Type: typ})
	return db
}

// End returns to the enclosing blueprint.
func (db *DelegateBuilder) End() *BlueprintBuilder {
	return db.parent
}
