package generics

import "errors"

// ErrReadOnly is returned when mutating a placeholder table.
var ErrReadOnly = errors.New("generics table is read-only")

// ErrUnknownParameter is returned when setting a parameter the table does not declare.
var ErrUnknownParameter = errors.New("unknown generic parameter")

// ErrReentrant is returned when Set is called from inside a change observer.
var ErrReentrant = errors.New("generics table is being notified")
