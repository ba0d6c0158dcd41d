package domain

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/reference"
)

// Connection is a wire from a source port to a sink port, persisted as references.
type Connection struct {
	From reference.Info `json:"from"`
	To   reference.Info `json:"to"`
}

// String renders the wire as "from -> to".
func (c Connection) String() string {
	return c.From.String() + " -> " + c.To.String()
}

// Equal compares both endpoints.
func (c Connection) Equal(other Connection) bool {
	return c.From.Equal(other.From) && c.To.Equal(other.To)
}

// IsSource reports whether data can leave port into b's graph:
// operator outputs and boundary inputs.
func IsSource(port *Port) bool {
	if port.delegate.kind == OwnedByOperator {
		return !port.IsInput()
	}
	return port.IsInput()
}

// IsSink reports whether data can enter port from b's graph:
// operator inputs and boundary outputs.
func IsSink(port *Port) bool {
	return !IsSource(port)
}

// Connect wires from to to. Both ports must belong to b, from must be a
// source and to a sink.
func (b *Blueprint) Connect(from, to *Port) (Connection, error) {
	fromRef, err := b.ReferenceOf(from)
	if err != nil {
		return Connection{}, fmt.Errorf("connect from: %w", err)
	}
	toRef, err := b.ReferenceOf(to)
	if err != nil {
		return Connection{}, fmt.Errorf("connect to: %w", err)
	}
	if _, err := reference.Encode(fromRef); err != nil {
		return Connection{}, fmt.Errorf("connect from: %w", err)
	}
	if _, err := reference.Encode(toRef); err != nil {
		return Connection{}, fmt.Errorf("connect to: %w", err)
	}

	if !IsSource(from) {
		return Connection{}, fmt.Errorf("%w: %s is not a source", ErrInvalidEndpoint, describe(fromRef))
	}
	if !IsSink(to) {
		return Connection{}, fmt.Errorf("%w: %s is not a sink", ErrInvalidEndpoint, describe(toRef))
	}

	conn := Connection{From: fromRef, To: toRef}
	for _, existing := range b.connections {
		if existing.Equal(conn) {
			return Connection{}, fmt.Errorf("%w: %s", ErrDuplicateConnection, conn)
		}
	}

	b.connections = append(b.connections, conn)
	return conn, nil
}

// ConnectRefs resolves both references and wires them.
// The stored connection uses the canonical form of each endpoint.
func (b *Blueprint) ConnectRefs(from, to string) (Connection, error) {
	src, err := b.ResolveString(from)
	if err != nil {
		return Connection{}, fmt.Errorf("connect from %q: %w", from, err)
	}
	dst, err := b.ResolveString(to)
	if err != nil {
		return Connection{}, fmt.Errorf("connect to %q: %w", to, err)
	}
	return b.Connect(src, dst)
}

// Disconnect removes conn. It reports whether the wire existed.
func (b *Blueprint) Disconnect(conn Connection) bool {
	for i, existing := range b.connections {
		if existing.Equal(conn) {
			b.connections = append(b.connections[:i], b.connections[i+1:]...)
			return true
		}
	}
	return false
}

// Connections returns the wires in creation order.
func (b *Blueprint) Connections() []Connection {
	out := make([]Connection, len(b.connections))
	copy(out, b.connections)
	return out
}

// ConnectionsOf returns the wires touching port.
func (b *Blueprint) ConnectionsOf(port *Port) []Connection {
	ref, err := b.ReferenceOf(port)
	if err != nil {
		return nil
	}
	var out []Connection
	for _, c := range b.connections {
		if c.From.Equal(ref) || c.To.Equal(ref) {
			out = append(out, c)
		}
	}
	return out
}
