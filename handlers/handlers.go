// Package handlers holds the default code generators for the annotations
// understood by go-easy-annotations.
//
// Field annotations:
//
//	@Getter  func (t *T) X() F          (GetX for an exported field X)
//	@Setter  func (t *T) SetX(x F)
//	@With    func (t T) WithX(x F) T
//
// Method and constructor annotations:
//
//	@Must    MustName(...) that panics when Name returns an error
//
// An annotation may give the name of the generated member as its first
// argument, for example `// @Getter(Horizontal)`.
package handlers

import (
	"errors"
	"fmt"

	"github.com/dave/dst"
	"github.com/newrelic/go-easy-annotations/internal/codegen"
	"github.com/newrelic/go-easy-annotations/node"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("handlers")

var (
	// ErrWrongTarget is returned when an annotation is placed on a kind of
	// member it can not be used with.
	ErrWrongTarget = errors.New("annotation not allowed here")

	// ErrLocalType is returned for types declared inside a function body;
	// Go does not allow methods on them.
	ErrLocalType = errors.New("can not generate methods for a function-local type")

	// ErrMemberExists is returned when the member to generate would collide
	// with a member the type already has.
	ErrMemberExists = errors.New("member already exists")

	// ErrNoSyntax is returned when the target has no host declaration to
	// generate code from.
	ErrNoSyntax = errors.New("declaration has no syntax")
)

// fieldTarget checks that a field annotation can generate a member for
// target in enclosing, and returns the field.
func fieldTarget(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) (*node.FieldDeclaration, error) {
	if enclosing == nil {
		return nil, fmt.Errorf("%w: no enclosing type", ErrWrongTarget)
	}
	if enclosing.Local {
		return nil, fmt.Errorf("%w: %s", ErrLocalType, enclosing.Name)
	}
	field, ok := target.(*node.FieldDeclaration)
	if !ok || field == nil {
		return nil, fmt.Errorf("%w: %s needs a field, got %s", ErrWrongTarget, annotation, kindOf(target))
	}
	if field.Name == "" || field.Name == "_" {
		return nil, fmt.Errorf("%w: %s on a blank field", ErrWrongTarget, annotation)
	}
	if field.Type == nil {
		return nil, fmt.Errorf("%w: field %s has no type", ErrNoSyntax, field.Name)
	}
	return field, nil
}

// memberName returns the name given as the annotation's first argument, or
// fallback.
func memberName(annotation *node.Annotation, enclosing *node.TypeDeclaration, fallback string) (string, error) {
	name := fallback
	if arg := annotation.Arg(0); arg != "" {
		name = arg
	}
	if enclosing.HasMember(name) {
		return "", fmt.Errorf("%w: %s.%s", ErrMemberExists, enclosing.Name, name)
	}
	return name, nil
}

func receiver(enclosing *node.TypeDeclaration) codegen.Receiver {
	return codegen.NewReceiver(enclosing.Name, enclosing.Syntax)
}

// generatedMethod wraps a generated declaration as a method of enclosing.
// The body does not exist in any source file, so the host must never try to
// parse it.
func generatedMethod(enclosing *node.TypeDeclaration, name string, decl *dst.FuncDecl) *node.MethodDeclaration {
	m := &node.MethodDeclaration{
		Name: name,
		MethodBase: node.MethodBase{
			Syntax: decl,
		},
	}
	m.Bits.Suppress()
	enclosing.AppendMethod(m)
	log.Debugf("generated method %s.%s", enclosing.Name, name)
	return m
}

func kindOf(m node.Member) string {
	if node.IsNil(m) {
		return "nothing"
	}
	return m.Kind().String()
}
