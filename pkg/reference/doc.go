/*
Package reference implements the compact grammar that addresses a port inside
a blueprint's operator/delegate hierarchy. Wires are persisted as pairs of
reference strings.

# Grammar

	reference     := IN-form | OUT-form
	IN-form       := port-path "(" instance-part
	OUT-form      := instance-part ")" port-path
	instance-part := "" | [blueprint-path "#"] instance-name
	instance-name := name | name "." delegate-name

The direction marker is located first, which fixes the side carrying the
address and the side carrying the leaf port path. Dots in the port path are
therefore never confused with a delegate qualifier.

# Examples

	(            input root of the enclosing blueprint
	)result      output port "result" of the enclosing blueprint
	a)           output root of instance "a"
	e(c.d        input port "e" of delegate "d" on instance "c"
	e(f.g#c.d    same, with instance "c" qualified by blueprint "f.g"

Parse never panics and reports malformed input with a false result.
ParseStrict returns a *SyntaxError naming the rule that failed.
*/
package reference
