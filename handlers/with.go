package handlers

import (
	"github.com/newrelic/go-easy-annotations/internal/codegen"
	"github.com/newrelic/go-easy-annotations/node"
)

// With generates a method with a value receiver that returns a copy of the
// value with one field replaced.
type With struct{}

func (With) Apply(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error {
	field, err := fieldTarget(annotation, enclosing, target)
	if err != nil {
		return err
	}
	name, err := memberName(annotation, enclosing, "With"+codegen.Exported(field.Name))
	if err != nil {
		return err
	}

	decl := codegen.Wither(receiver(enclosing), name, field.Name, field.Type)
	generatedMethod(enclosing, name, decl)
	return nil
}
