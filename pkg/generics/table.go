package generics

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/types"
)

// ChangeFunc observes a committed binding change.
type ChangeFunc func(name string, old, current types.Type)

// Table maps generic parameter names to their concrete types.
// Unresolved parameters map to types.Placeholder.
//
// A Table is not safe for concurrent use.
type Table struct {
	names     []string
	bindings  map[string]types.Type
	readOnly  bool
	notifying bool
	observers []*observer
}

type observer struct {
	fn ChangeFunc
}

// New creates a mutable table declaring names, all unresolved.
// Duplicate names are declared once.
func New(names ...string) *Table {
	t := &Table{bindings: make(map[string]types.Type, len(names))}
	for _, name := range names {
		if _, ok := t.bindings[name]; ok {
			continue
		}
		t.names = append(t.names, name)
		t.bindings[name] = types.Placeholder
	}
	return t
}

// Placeholder creates a fixed table whose entries stay unresolved.
func Placeholder(names ...string) *Table {
	t := New(names...)
	t.readOnly = true
	return t
}

// Get returns the binding for name, or types.Placeholder if unresolved or undeclared.
func (t *Table) Get(name string) types.Type {
	if t == nil {
		return types.Placeholder
	}
	if bound, ok := t.bindings[name]; ok {
		return bound
	}
	return types.Placeholder
}

// Lookup adapts the table for types.Type.Resolve.
func (t *Table) Lookup() types.Lookup {
	return t.Get
}

// Set binds name to typ. Setting the same value twice is a no-op.
// Binding types.Placeholder (or nil) marks the parameter unresolved again.
func (t *Table) Set(name string, typ types.Type) error {
	if t.readOnly {
		return fmt.Errorf("set %s: %w", name, ErrReadOnly)
	}
	if t.notifying {
		return fmt.Errorf("set %s: %w", name, ErrReentrant)
	}
	old, ok := t.bindings[name]
	if !ok {
		return fmt.Errorf("set %s: %w", name, ErrUnknownParameter)
	}
	if typ == nil {
		typ = types.Placeholder
	}
	if types.Equal(old, typ) {
		return nil
	}

	t.bindings[name] = typ
	t.notify(name, old, typ)
	return nil
}

// SetAll binds every entry of bindings, stopping at the first failure.
// Names are applied in declaration order so observers see a stable sequence.
func (t *Table) SetAll(bindings map[string]types.Type) error {
	for name := range bindings {
		if _, ok := t.bindings[name]; !ok {
			return fmt.Errorf("set %s: %w", name, ErrUnknownParameter)
		}
	}
	for _, name := range t.names {
		typ, ok := bindings[name]
		if !ok {
			continue
		}
		if err := t.Set(name, typ); err != nil {
			return err
		}
	}
	return nil
}

// IsResolved reports whether no declared parameter maps to the placeholder.
func (t *Table) IsResolved() bool {
	if t == nil {
		return true
	}
	for _, name := range t.names {
		if types.IsPlaceholder(t.bindings[name]) {
			return false
		}
	}
	return true
}

// Unresolved lists the parameters still bound to the placeholder.
func (t *Table) Unresolved() []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, name := range t.names {
		if types.IsPlaceholder(t.bindings[name]) {
			out = append(out, name)
		}
	}
	return out
}

// Has reports whether name is declared.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.bindings[name]
	return ok
}

// Names returns the declared parameters in declaration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of declared parameters.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// ReadOnly reports whether the table is a fixed placeholder table.
func (t *Table) ReadOnly() bool {
	return t != nil && t.readOnly
}

// Snapshot copies the bindings as type names, keyed by parameter.
func (t *Table) Snapshot() map[string]string {
	if t == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(t.names))
	for _, name := range t.names {
		out[name] = t.bindings[name].Name()
	}
	return out
}

// OnChange registers fn to run after each committed Set.
// Observers run synchronously in registration order.
// The returned function removes the observer.
func (t *Table) OnChange(fn ChangeFunc) (cancel func()) {
	o := &observer{fn: fn}
	t.observers = append(t.observers, o)
	return func() {
		for i, cur := range t.observers {
			if cur == o {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

func (t *Table) notify(name string, old, current types.Type) {
	if len(t.observers) == 0 {
		return
	}
	t.notifying = true
	defer func() { t.notifying = false }()

	observers := make([]*observer, len(t.observers))
	copy(observers, t.observers)
	for _, o := range observers {
		o.fn(name, old, current)
	}
}
