package domain

import (
	"testing"

	"github.com/aretw0/lattice/pkg/reference"
	"github.com/aretw0/lattice/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_RejectsUnencodableEndpoints(t *testing.T) {
	leaf := NewBlueprint("leaf")
	_, err := leaf.Main().CreatePort(PortSpec{Direction: Out, Type: types.Int()})
	require.NoError(t, err)

	host := NewBlueprint("host")
	_, err = host.Main().CreatePort(PortSpec{Direction: Out, Type: types.Int()})
	require.NoError(t, err)

	op, err := host.AddOperator("x", leaf)
	require.NoError(t, err)

	// IDs are checked on placement; force one that cannot be written back.
	leaf.id = "odd#id"

	_, err = host.Connect(op.Main().PortOut(), host.Main().PortOut())
	assert.ErrorIs(t, err, reference.ErrUnencodable)
	assert.Empty(t, host.Connections())
}
