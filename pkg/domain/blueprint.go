package domain

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/generics"
)

// Blueprint is a reusable dataflow graph definition.
type Blueprint struct {
	id     string
	params []string
	fixed  *generics.Table

	delegates     map[string]*Delegate
	delegateOrder []*Delegate

	operators     map[string]*Operator
	operatorOrder []*Operator

	connections []Connection
	listeners   []*operatorListener
}

// NewBlueprint creates a blueprint declaring the given generic parameters.
// The main delegate (named "") is created with it.
func NewBlueprint(id string, params ...string) *Blueprint {
	fixed := generics.Placeholder(params...)
	b := &Blueprint{
		id:        id,
		params:    fixed.Names(),
		fixed:     fixed,
		delegates: make(map[string]*Delegate),
		operators: make(map[string]*Operator),
	}
	b.attachDelegate("")
	return b
}

// ID returns the dotted blueprint identifier.
func (b *Blueprint) ID() string { return b.id }

// Params returns the declared generic parameters in declaration order.
func (b *Blueprint) Params() []string {
	out := make([]string, len(b.params))
	copy(out, b.params)
	return out
}

// Generics returns the read-only placeholder table shared by the blueprint's own delegates.
func (b *Blueprint) Generics() *generics.Table { return b.fixed }

// Main returns the blueprint's main interface.
func (b *Blueprint) Main() *Delegate { return b.delegates[""] }

// AddDelegate creates a named boundary delegate.
func (b *Blueprint) AddDelegate(name string) (*Delegate, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := b.checkFree(name); err != nil {
		return nil, err
	}
	return b.attachDelegate(name), nil
}

// Delegate returns the blueprint delegate called name, or nil.
func (b *Blueprint) Delegate(name string) *Delegate { return b.delegates[name] }

// Delegates returns the blueprint's delegates, main first, then in creation order.
func (b *Blueprint) Delegates() []*Delegate {
	out := make([]*Delegate, len(b.delegateOrder))
	copy(out, b.delegateOrder)
	return out
}

// AddOperator places an instance of def in b under name.
// The operator's generics start unresolved and its delegates mirror def's delegates.
// Operator-added observers run before AddOperator returns.
func (b *Blueprint) AddOperator(name string, def *Blueprint) (*Operator, error) {
	if def == nil {
		return nil, ErrNilBlueprint
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: operator name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(def.id, "()#") {
		return nil, fmt.Errorf("%w: blueprint id %q contains a reserved character", ErrInvalidName, def.id)
	}
	if err := b.checkFree(name); err != nil {
		return nil, err
	}
	if def.contains(b) {
		return nil, fmt.Errorf("%w: %s inside %s", ErrCycle, def.id, b.id)
	}

	op, err := newOperator(b, name, def)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s as %q: %w", def.id, name, err)
	}

	b.operators[name] = op
	b.operatorOrder = append(b.operatorOrder, op)
	b.notifyOperatorAdded(op)
	return op, nil
}

// Operator returns the operator called name, or nil.
func (b *Blueprint) Operator(name string) *Operator { return b.operators[name] }

// Operators returns the placed operators in creation order.
func (b *Blueprint) Operators() []*Operator {
	out := make([]*Operator, len(b.operatorOrder))
	copy(out, b.operatorOrder)
	return out
}

// RemoveOperator destroys the operator with its delegates and ports,
// and drops every connection touching it.
func (b *Blueprint) RemoveOperator(name string) error {
	op, ok := b.operators[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrOperatorNotFound, name)
	}

	delete(b.operators, name)
	for i, cur := range b.operatorOrder {
		if cur == op {
			b.operatorOrder = append(b.operatorOrder[:i], b.operatorOrder[i+1:]...)
			break
		}
	}

	kept := b.connections[:0]
	for _, c := range b.connections {
		if c.From.Instance == name || c.To.Instance == name {
			continue
		}
		kept = append(kept, c)
	}
	b.connections = kept

	op.parent = nil
	return nil
}

// contains reports whether target is b or is placed, at any depth, inside b.
func (b *Blueprint) contains(target *Blueprint) bool {
	if b == target {
		return true
	}
	for _, op := range b.operatorOrder {
		if op.def.contains(target) {
			return true
		}
	}
	return false
}

func (b *Blueprint) attachDelegate(name string) *Delegate {
	d := newDelegate(name, OwnedByBlueprint)
	d.blueprint = b
	b.delegates[name] = d
	b.delegateOrder = append(b.delegateOrder, d)
	return d
}

// checkFree enforces one namespace for delegates and operators.
func (b *Blueprint) checkFree(name string) error {
	if _, ok := b.delegates[name]; ok {
		return fmt.Errorf("%w: %q is a delegate of %s", ErrDuplicateName, name, b.id)
	}
	if _, ok := b.operators[name]; ok {
		return fmt.Errorf("%w: %q is an operator of %s", ErrDuplicateName, name, b.id)
	}
	return nil
}

func validateName(name string) error {
	if strings.ContainsAny(name, "()#.") {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	}
	return nil
}
