package selection

import (
	"errors"
	"fmt"
)

// ErrMissingUUID is returned when a controller is constructed on an element
// without the uuid attribute. Attachment only ever selects elements that
// carry it, so seeing this error means the host wired things up wrongly.
var ErrMissingUUID = errors.New("selection root has no " + UUIDAttribute + " attribute")

// ErrNilRoot is returned when no root element is given.
var ErrNilRoot = errors.New("selection root is nil")

// RootError reports a root element the controller cannot bind to.
type RootError struct {
	Tag string
	Err error
}

func (e *RootError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("cannot bind to <%s>: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("cannot bind: %v", e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}
