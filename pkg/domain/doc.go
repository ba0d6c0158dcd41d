/*
Package domain contains the ownership tree of a dataflow graph definition.

It is kept pure and free of I/O: adapters build the tree, the editor mutates
it, and reference strings persist the wires between its ports.

# Key Entities

  - Blueprint: a reusable graph definition. Owns delegates, operators and connections.
  - Operator: a blueprint placed inside another blueprint, with its own generics table.
  - Delegate: a named interface boundary with an input and an output port subtree.
    The unnamed delegate is the main interface of its owner.
  - Port: a typed connection point. Structured ports own named children addressed by a dotted path.
  - Connection: a wire between two ports, stored as a pair of reference.Info values.

# Ownership

Every node has exactly one owner and is never re-parented. Children keep a
non-owning back reference used for lookup and for reading generics: a delegate
owned by an operator reads the operator's table, a delegate owned by a
blueprint reads a fixed placeholder table.

The package is single-threaded. Operator-added observers run synchronously,
in subscription order, on the caller's stack.
*/
package domain
