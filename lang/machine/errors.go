package machine

import "fmt"

// Kind identifies one of the runtime error categories named in spec §7.
type Kind string

const (
	KindInputLengthMismatch Kind = "InputLengthMismatch"
	KindInputCountMismatch  Kind = "InputCountMismatch"
	KindUnknownNative       Kind = "UnknownNative"
	KindTypeMismatch        Kind = "TypeMismatch"
)

// RuntimeError is a runtime failure (spec §7): it names the function
// descriptor involved, except for the internal TypeMismatch raised on an
// unhandled node kind, which leaves Descriptor empty. It carries no source
// position of the node that triggered it.
type RuntimeError struct {
	Kind       Kind
	Descriptor string
	Msg        string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Descriptor, e.Kind, e.Msg)
}
