/*
Package lattice is the model core of a flow-based dataflow graph editor.

A blueprint is a reusable graph definition with generic parameters. Placing a
blueprint inside another creates an operator, which binds those parameters to
concrete types. Every port in the nested hierarchy can be addressed with a
compact reference string, which is how wires are persisted and reconnected.

# Reference strings

	(               boundary input root
	)result         boundary output port "result"
	a)              output root of instance "a"
	e(c.d           input "e" of delegate "d" on instance "c"
	e(f.g#c.d       same, qualified with blueprint "f.g"

See package github.com/aretw0/lattice/pkg/reference for the grammar.

# Usage

	ws, err := lattice.New("./blueprints")
	if err != nil {
		log.Fatal(err)
	}

	bp, err := ws.Blueprint("app.main")
	if err != nil {
		log.Fatal(err)
	}

	port, err := bp.ResolveString("a(app.main#sum")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(port.ResolvedType().Name())

Blueprints can also come from memory, Redis or SQLite through WithLoader and
WithStore.
*/
package lattice
