package handlers

import (
	"github.com/newrelic/go-easy-annotations/internal/codegen"
	"github.com/newrelic/go-easy-annotations/node"
)

// Setter generates a method with a pointer receiver that assigns a field.
type Setter struct{}

func (Setter) Apply(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error {
	field, err := fieldTarget(annotation, enclosing, target)
	if err != nil {
		return err
	}
	name, err := memberName(annotation, enclosing, "Set"+codegen.Exported(field.Name))
	if err != nil {
		return err
	}

	decl := codegen.Setter(receiver(enclosing), name, field.Name, field.Type)
	generatedMethod(enclosing, name, decl)
	return nil
}
