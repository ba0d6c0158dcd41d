package domain

import (
	"github.com/aretw0/lattice/pkg/generics"
	"github.com/aretw0/lattice/pkg/types"
)

// Operator is an instance of a blueprint placed inside another blueprint.
type Operator struct {
	name   string
	def    *Blueprint
	parent *Blueprint
	table  *generics.Table

	delegates     map[string]*Delegate
	delegateOrder []*Delegate
}

func newOperator(parent *Blueprint, name string, def *Blueprint) (*Operator, error) {
	op := &Operator{
		name:      name,
		def:       def,
		parent:    parent,
		table:     generics.New(def.params...),
		delegates: make(map[string]*Delegate, len(def.delegateOrder)),
	}

	for _, src := range def.delegateOrder {
		d := newDelegate(src.name, OwnedByOperator)
		d.operator = op
		if err := src.cloneInto(d); err != nil {
			return nil, err
		}
		op.delegates[d.name] = d
		op.delegateOrder = append(op.delegateOrder, d)
	}
	return op, nil
}

// Name returns the instance name inside the parent blueprint.
func (o *Operator) Name() string { return o.name }

// Blueprint returns the instantiated definition.
func (o *Operator) Blueprint() *Blueprint { return o.def }

// Parent returns the blueprint the operator is placed in, or nil once removed.
func (o *Operator) Parent() *Blueprint { return o.parent }

// Generics returns the operator's specialization table.
// Every delegate of the operator returns this same table.
func (o *Operator) Generics() *generics.Table { return o.table }

// Specialize binds a generic parameter of the operator.
func (o *Operator) Specialize(param string, typ types.Type) error {
	return o.table.Set(param, typ)
}

// Main returns the operator's main interface.
func (o *Operator) Main() *Delegate { return o.delegates[""] }

// Delegate returns the delegate called name, or nil.
func (o *Operator) Delegate(name string) *Delegate { return o.delegates[name] }

// Delegates returns the operator's delegates in the blueprint's order.
func (o *Operator) Delegates() []*Delegate {
	out := make([]*Delegate, len(o.delegateOrder))
	copy(out, o.delegateOrder)
	return out
}
