package domain

import (
	"strings"

	"github.com/aretw0/lattice/pkg/types"
)

// Direction tells whether a port receives or emits data.
type Direction bool

const (
	In  Direction = true
	Out Direction = false
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// ParseDirection accepts "in" and "out".
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "input":
		return In, true
	case "out", "output":
		return Out, true
	}
	return Out, false
}

// PortSpec describes a port to create on a delegate.
type PortSpec struct {
	Direction Direction
	// Path is the dotted path below the root; "" is the root itself.
	Path string
	// Type defaults to types.Any when nil.
	Type types.Type
}

// Port is a typed connection point in a delegate's port tree.
type Port struct {
	name      string
	path      string
	direction Direction
	typ       types.Type

	delegate *Delegate
	parent   *Port
	children []*Port
	byName   map[string]*Port
}

// Name returns the last path segment; "" for a root port.
func (p *Port) Name() string { return p.name }

// Path returns the dotted path of the port within its delegate.
func (p *Port) Path() string { return p.path }

// Direction returns whether the port is an input or an output.
func (p *Port) Direction() Direction { return p.direction }

// IsInput reports whether the port receives data.
func (p *Port) IsInput() bool { return p.direction == In }

// IsRoot reports whether the port is the root of its subtree.
func (p *Port) IsRoot() bool { return p.parent == nil }

// Type returns the declared type, which may reference generic parameters.
func (p *Port) Type() types.Type { return p.typ }

// ResolvedType substitutes generic parameters through the owning delegate's table.
// Unresolved parameters resolve to types.Placeholder.
func (p *Port) ResolvedType() types.Type {
	return p.typ.Resolve(p.delegate.Generics().Lookup())
}

// Delegate returns the delegate that owns the port.
func (p *Port) Delegate() *Delegate { return p.delegate }

// Parent returns the enclosing port, or nil for a root.
func (p *Port) Parent() *Port { return p.parent }

// Children returns the nested ports in creation order.
func (p *Port) Children() []*Port {
	out := make([]*Port, len(p.children))
	copy(out, p.children)
	return out
}

// Child returns the nested port called name, or nil.
func (p *Port) Child(name string) *Port {
	return p.byName[name]
}

// Walk visits p and its descendants depth-first in creation order.
func (p *Port) Walk(fn func(*Port)) {
	fn(p)
	for _, child := range p.children {
		child.Walk(fn)
	}
}

func (p *Port) spec() PortSpec {
	return PortSpec{Direction: p.direction, Path: p.path, Type: p.typ}
}

// splitPath validates a dotted port path and returns its parent path and leaf name.
func splitPath(path string) (parent, name string, ok bool) {
	if path == "" {
		return "", "", true
	}
	if strings.ContainsAny(path, "()") {
		return "", "", false
	}
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return "", "", false
		}
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i], path[i+1:], true
	}
	return "", path, true
}
