package transform

import (
	"errors"
	"fmt"

	"github.com/newrelic/go-easy-annotations/node"
)

var (
	// ErrHandlerPanic is wrapped by a HandlerError when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrExistingMemberChanged is wrapped by a HandlerError when a handler
	// removed or replaced a member that existed before it ran.
	ErrExistingMemberChanged = errors.New("handler changed an existing member")

	// ErrForeignMember is wrapped by a HandlerError when a handler appended
	// members to a type other than the one enclosing its target.
	ErrForeignMember = errors.New("handler appended members outside the enclosing type")
)

// HandlerError describes a handler application that failed. Whatever the
// handler appended has been removed again by the time it is reported.
type HandlerError struct {
	Annotation *node.Annotation
	Type       *node.TypeDeclaration
	Target     node.Member
	Err        error
}

func (e *HandlerError) Error() string {
	typeName := "<nil>"
	if e.Type != nil {
		typeName = e.Type.Name
	}
	targetName := "<nil>"
	if !node.IsNil(e.Target) {
		targetName = fmt.Sprintf("%s %s", e.Target.Kind(), e.Target.MemberName())
	}
	return fmt.Sprintf("%s on %s of %s: %v", e.Annotation, targetName, typeName, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
