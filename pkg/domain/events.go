package domain

// OperatorAddedFunc observes operators placed in a blueprint.
type OperatorAddedFunc func(op *Operator)

type operatorListener struct {
	fn OperatorAddedFunc
}

// OnOperatorAdded registers fn to run after each AddOperator.
// Observers run synchronously in registration order, with the operator fully built.
// The returned function removes the observer.
func (b *Blueprint) OnOperatorAdded(fn OperatorAddedFunc) (cancel func()) {
	l := &operatorListener{fn: fn}
	b.listeners = append(b.listeners, l)
	return func() {
		for i, cur := range b.listeners {
			if cur == l {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

func (b *Blueprint) notifyOperatorAdded(op *Operator) {
	listeners := make([]*operatorListener, len(b.listeners))
	copy(listeners, b.listeners)
	for _, l := range listeners {
		l.fn(op)
	}
}
