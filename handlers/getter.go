package handlers

import (
	"github.com/newrelic/go-easy-annotations/internal/codegen"
	"github.com/newrelic/go-easy-annotations/node"
)

// Getter generates an accessor for a field. The accessor of an unexported
// field x is X; an exported field X gets GetX, since a method named X would
// collide with the field.
type Getter struct{}

// GetterName returns the default accessor name for a field.
func GetterName(field string) string {
	if codegen.IsExported(field) {
		return "Get" + field
	}
	return codegen.Exported(field)
}

func (Getter) Apply(annotation *node.Annotation, enclosing *node.TypeDeclaration, target node.Member) error {
	field, err := fieldTarget(annotation, enclosing, target)
	if err != nil {
		return err
	}
	name, err := memberName(annotation, enclosing, GetterName(field.Name))
	if err != nil {
		return err
	}

	decl := codegen.Getter(receiver(enclosing), name, field.Name, field.Type)
	generatedMethod(enclosing, name, decl)
	return nil
}
