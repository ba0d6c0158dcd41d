package domain

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/reference"
)

// Resolve finds the port addressed by info inside b.
//
// An empty instance addresses the main delegate of b. Otherwise the instance
// names an operator of b (optionally qualified by its blueprint ID and
// narrowed to one of its delegates) or one of b's own delegates.
func (b *Blueprint) Resolve(info reference.Info) (*Port, error) {
	d, err := b.resolveDelegate(info)
	if err != nil {
		return nil, err
	}

	dir := Out
	if info.DirectionIn {
		dir = In
	}
	port := d.Port(dir, info.Port)
	if port == nil {
		return nil, fmt.Errorf("%w: %s %q on %s", ErrPortNotFound, dir, info.Port, describe(info))
	}
	return port, nil
}

// ResolveString parses ref and resolves it.
func (b *Blueprint) ResolveString(ref string) (*Port, error) {
	info, err := reference.ParseStrict(ref)
	if err != nil {
		return nil, err
	}
	return b.Resolve(info)
}

func (b *Blueprint) resolveDelegate(info reference.Info) (*Delegate, error) {
	if info.Instance == "" && info.Blueprint == nil && info.Delegate == nil {
		return b.Main(), nil
	}

	if op, ok := b.operators[info.Instance]; ok {
		if info.Blueprint != nil && *info.Blueprint != op.def.id {
			return nil, fmt.Errorf("%w: %q is an instance of %s, not %s",
				ErrBlueprintMismatch, op.name, op.def.id, *info.Blueprint)
		}
		d := op.Delegate(info.DelegateName())
		if d == nil {
			return nil, fmt.Errorf("%w: %q on operator %q", ErrDelegateNotFound, info.DelegateName(), op.name)
		}
		return d, nil
	}

	if info.Blueprint == nil && info.Delegate == nil {
		if d, ok := b.delegates[info.Instance]; ok {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrInstanceNotFound, describe(info), b.id)
}

// ReferenceOf returns the canonical reference of port relative to b.
// Operator ports are qualified with their blueprint ID when it is not empty.
func (b *Blueprint) ReferenceOf(port *Port) (reference.Info, error) {
	if port == nil {
		return reference.Info{}, fmt.Errorf("%w: nil port", ErrForeignPort)
	}

	d := port.delegate
	switch d.kind {
	case OwnedByBlueprint:
		if d.blueprint != b {
			return reference.Info{}, fmt.Errorf("%w: delegate %q of %s", ErrForeignPort, d.name, d.blueprint.id)
		}
		if d.IsMain() {
			return reference.Boundary(port.IsInput(), port.path), nil
		}
		return reference.Instance(d.name, port.IsInput(), port.path), nil

	case OwnedByOperator:
		op := d.operator
		if op.parent != b || b.operators[op.name] != op {
			return reference.Info{}, fmt.Errorf("%w: operator %q", ErrForeignPort, op.name)
		}
		info := reference.Instance(op.name, port.IsInput(), port.path)
		if !d.IsMain() {
			info = info.WithDelegate(d.name)
		}
		if op.def.id != "" {
			info = info.WithBlueprint(op.def.id)
		}
		return info, nil
	}

	return reference.Info{}, fmt.Errorf("%w: unknown owner", ErrForeignPort)
}

func describe(info reference.Info) string {
	if s := info.String(); s != "" {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%+v", info)
}
