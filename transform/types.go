// Package transform finds annotated declarations in a host tree and hands each
// of them to the handler registered for the annotation's simple name.
//
// The host calls one of the Dispatcher entry points at fixed points of its own
// pipeline: once per compilation unit after the unit has been diet parsed, and
// once per method, constructor or initializer after its body has been parsed.
// The compilation unit entry point covers the declarations of the unit; a body
// entry point covers only the types declared inside that body. The subtrees
// never overlap, so as long as the host fires every entry point once per
// subtree, each annotation is applied at most once.
package transform

import (
	"github.com/newrelic/go-easy-annotations/node"
)

// Handler generates code for one annotation kind.
//
// Apply may append members to enclosing, and to nothing else. It must not
// touch any member that was already there. Method-like members it appends,
// including those of appended member types, should carry
// node.BitSuppressReparse; the dispatcher sets the bit on anything the handler
// forgot before the entry point returns.
type Handler interface {
	Apply(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error

func (f HandlerFunc) Apply(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error {
	return f(annotation, enclosing, target)
}

// Parser is the host parser driving a transformation. The dispatcher reports
// every failed handler application to it. A nil Parser is allowed; problems are
// then only logged.
type Parser interface {
	ReportProblem(err *HandlerError)
}

// Match is an annotated declaration together with the handler that will be
// applied to it.
type Match struct {
	Type       *node.TypeDeclaration
	Member     node.Member
	Annotation *node.Annotation
	Handler    Handler
}
