package domain

import "errors"

// ErrDuplicatePort is returned when a delegate already has a port at the requested path and direction.
var ErrDuplicatePort = errors.New("duplicate port")

// ErrParentNotFound is returned when a nested port is created before its parent.
var ErrParentNotFound = errors.New("parent port not found")

// ErrInvalidPath is returned for port paths with empty or reserved segments.
var ErrInvalidPath = errors.New("invalid port path")

// ErrInvalidName is returned for delegate or operator names containing reserved characters.
var ErrInvalidName = errors.New("invalid name")

// ErrDuplicateName is returned when a delegate or operator name is already taken in a blueprint.
var ErrDuplicateName = errors.New("name already in use")

// ErrUndeclaredParameter is returned when a port type references a generic the owner does not declare.
var ErrUndeclaredParameter = errors.New("undeclared generic parameter")

// ErrNilBlueprint is returned when instantiating a nil blueprint.
var ErrNilBlueprint = errors.New("blueprint is nil")

// ErrCycle is returned when placing an operator would make a blueprint contain itself.
var ErrCycle = errors.New("blueprint would contain itself")

// ErrInstanceNotFound is returned when a reference names no operator or delegate.
var ErrInstanceNotFound = errors.New("instance not found")

// ErrDelegateNotFound is returned when a reference names a missing delegate.
var ErrDelegateNotFound = errors.New("delegate not found")

// ErrPortNotFound is returned when a reference names a missing port.
var ErrPortNotFound = errors.New("port not found")

// ErrBlueprintMismatch is returned when a reference's blueprint qualifier disagrees with the operator.
var ErrBlueprintMismatch = errors.New("blueprint qualifier mismatch")

// ErrForeignPort is returned when a port does not belong to the blueprint being edited.
var ErrForeignPort = errors.New("port belongs to another blueprint")

// ErrInvalidEndpoint is returned when a wire does not run from a source to a sink.
var ErrInvalidEndpoint = errors.New("invalid connection endpoint")

// ErrDuplicateConnection is returned when the same wire is added twice.
var ErrDuplicateConnection = errors.New("duplicate connection")

// ErrOperatorNotFound is returned when removing an operator that does not exist.
var ErrOperatorNotFound = errors.New("operator not found")

// ErrBlueprintNotFound is returned when a loader or store has no blueprint with the requested ID.
var ErrBlueprintNotFound = errors.New("blueprint not found")
