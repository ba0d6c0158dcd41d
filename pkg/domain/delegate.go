package domain

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/generics"
	"github.com/aretw0/lattice/pkg/types"
)

// OwnerKind tags which node owns a delegate.
type OwnerKind int

const (
	OwnedByBlueprint OwnerKind = iota
	OwnedByOperator
)

func (k OwnerKind) String() string {
	switch k {
	case OwnedByBlueprint:
		return "blueprint"
	case OwnedByOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Owner is the node a delegate belongs to: a *Blueprint or an *Operator.
type Owner interface {
	Main() *Delegate
	Delegate(name string) *Delegate
	Delegates() []*Delegate
	Generics() *generics.Table
}

var (
	_ Owner = (*Blueprint)(nil)
	_ Owner = (*Operator)(nil)
)

// Delegate is a named interface boundary with an input and an output port subtree.
type Delegate struct {
	name string
	kind OwnerKind

	// Exactly one of these is set, matching kind. Neither owns the delegate's lifetime.
	blueprint *Blueprint
	operator  *Operator

	in, out   *Port
	inIndex   map[string]*Port
	outIndex  map[string]*Port
	portOrder []*Port
}

func newDelegate(name string, kind OwnerKind) *Delegate {
	return &Delegate{
		name:     name,
		kind:     kind,
		inIndex:  make(map[string]*Port),
		outIndex: make(map[string]*Port),
	}
}

// Name returns the delegate name; "" is the owner's main interface.
func (d *Delegate) Name() string { return d.name }

// IsMain reports whether d is the owner's unnamed main interface.
func (d *Delegate) IsMain() bool { return d.name == "" }

// Kind returns the owner tag.
func (d *Delegate) Kind() OwnerKind { return d.kind }

// IsGenericAware reports whether the delegate takes part in specialization.
// Only operator-owned delegates do.
func (d *Delegate) IsGenericAware() bool { return d.kind == OwnedByOperator }

// Blueprint returns the owning blueprint, or nil for an operator-owned delegate.
func (d *Delegate) Blueprint() *Blueprint { return d.blueprint }

// Operator returns the owning operator, or nil for a blueprint-owned delegate.
func (d *Delegate) Operator() *Operator { return d.operator }

// Generics returns the table used to resolve port types.
// Operator-owned delegates read through to the operator's table;
// blueprint-owned delegates use the blueprint's fixed placeholder table.
func (d *Delegate) Generics() *generics.Table {
	switch d.kind {
	case OwnedByOperator:
		return d.operator.Generics()
	default:
		return d.blueprint.Generics()
	}
}

// Owner returns the blueprint or operator holding d.
func (d *Delegate) Owner() Owner {
	if d.kind == OwnedByOperator {
		return d.operator
	}
	return d.blueprint
}

// PortIn returns the root input port, or nil.
func (d *Delegate) PortIn() *Port { return d.in }

// PortOut returns the root output port, or nil.
func (d *Delegate) PortOut() *Port { return d.out }

// Port returns the port at path in the given direction, or nil.
func (d *Delegate) Port(dir Direction, path string) *Port {
	return d.index(dir)[path]
}

// Ports returns every port in creation order.
func (d *Delegate) Ports() []*Port {
	out := make([]*Port, len(d.portOrder))
	copy(out, d.portOrder)
	return out
}

// CreatePort adds a port under the subtree chosen by spec.Direction.
// An empty path creates the root. Nested paths require their parent to exist.
// A path that already exists fails with ErrDuplicatePort and leaves the tree unchanged.
func (d *Delegate) CreatePort(spec PortSpec) (*Port, error) {
	parentPath, name, ok := splitPath(spec.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, spec.Path)
	}

	index := d.index(spec.Direction)
	if _, exists := index[spec.Path]; exists {
		return nil, fmt.Errorf("%w: %s %q on delegate %q", ErrDuplicatePort, spec.Direction, spec.Path, d.name)
	}

	typ := spec.Type
	if typ == nil {
		typ = types.Any()
	}
	declared := d.Generics()
	for _, param := range types.Params(typ) {
		if !declared.Has(param) {
			return nil, fmt.Errorf("%w: %s in port %q", ErrUndeclaredParameter, param, spec.Path)
		}
	}

	port := &Port{
		name:      name,
		path:      spec.Path,
		direction: spec.Direction,
		typ:       typ,
		delegate:  d,
		byName:    make(map[string]*Port),
	}

	if spec.Path == "" {
		if spec.Direction == In {
			d.in = port
		} else {
			d.out = port
		}
	} else {
		parent, ok := index[parentPath]
		if !ok {
			return nil, fmt.Errorf("%w: %q for %q", ErrParentNotFound, parentPath, spec.Path)
		}
		port.parent = parent
		parent.children = append(parent.children, port)
		parent.byName[name] = port
	}

	index[spec.Path] = port
	d.portOrder = append(d.portOrder, port)
	return port, nil
}

func (d *Delegate) index(dir Direction) map[string]*Port {
	if dir == In {
		return d.inIndex
	}
	return d.outIndex
}

// cloneInto replays d's ports onto target in creation order, so parents precede children.
func (d *Delegate) cloneInto(target *Delegate) error {
	for _, port := range d.portOrder {
		if _, err := target.CreatePort(port.spec()); err != nil {
			return err
		}
	}
	return nil
}
