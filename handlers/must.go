package handlers

import (
	"fmt"

	"github.com/newrelic/go-easy-annotations/internal/codegen"
	"github.com/newrelic/go-easy-annotations/node"
)

// Must generates a variant of a method or constructor that panics instead of
// returning an error. Must on a method generates a method; Must on a
// constructor generates a constructor.
type Must struct{}

func (Must) Apply(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error {
	if enclosing == nil {
		return fmt.Errorf("%w: no enclosing type", ErrWrongTarget)
	}
	if enclosing.Local {
		return fmt.Errorf("%w: %s", ErrLocalType, enclosing.Name)
	}

	switch t := target.(type) {
	case *node.MethodDeclaration:
		if t == nil || t.Syntax == nil {
			return fmt.Errorf("%w: method", ErrNoSyntax)
		}
		name, err := memberName(annotation, enclosing, "Must"+codegen.Exported(t.Name))
		if err != nil {
			return err
		}
		decl, err := codegen.Must(t.Syntax, name)
		if err != nil {
			return err
		}
		generatedMethod(enclosing, name, decl)
		return nil

	case *node.ConstructorDeclaration:
		if t == nil || t.Syntax == nil {
			return fmt.Errorf("%w: constructor", ErrNoSyntax)
		}
		name, err := memberName(annotation, enclosing, "Must"+codegen.Exported(t.Name))
		if err != nil {
			return err
		}
		decl, err := codegen.Must(t.Syntax, name)
		if err != nil {
			return err
		}
		c := &node.ConstructorDeclaration{
			Name: name,
			MethodBase: node.MethodBase{
				Syntax: decl,
			},
		}
		c.Bits.Suppress()
		enclosing.AppendMethod(c)
		log.Debugf("generated constructor %s for %s", name, enclosing.Name)
		return nil

	default:
		return fmt.Errorf("%w: %s needs a method or constructor, got %s", ErrWrongTarget, annotation, kindOf(target))
	}
}
