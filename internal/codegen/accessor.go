package codegen

import (
	"fmt"
	"go/token"

	"github.com/dave/dst"
)

// fieldSelector returns recv.field
func fieldSelector(recv, field string) *dst.SelectorExpr {
	return &dst.SelectorExpr{
		X:   dst.NewIdent(recv),
		Sel: dst.NewIdent(field),
	}
}

// Getter returns a method that returns the value of a field:
//
//	// X returns the value of x.
//	func (p *Point) X() int {
//		return p.x
//	}
func Getter(recv Receiver, name, field string, fieldType dst.Expr) *dst.FuncDecl {
	decl := &dst.FuncDecl{
		Recv: recv.Field(true),
		Name: dst.NewIdent(name),
		Type: &dst.FuncType{
			Params: &dst.FieldList{},
			Results: &dst.FieldList{
				List: []*dst.Field{
					{
						Type: dst.Clone(fieldType).(dst.Expr),
					},
				},
			},
		},
		Body: Block(
			&dst.ReturnStmt{
				Results: []dst.Expr{
					fieldSelector(recv.Name, field),
				},
			},
		),
	}

	DocComment(decl, fmt.Sprintf("%s returns the value of %s.", name, field))
	SpaceDecl(decl)
	return decl
}

// Setter returns a method that assigns a field:
//
//	// SetX sets the value of x.
//	func (p *Point) SetX(x int) {
//		p.x = x
//	}
func Setter(recv Receiver, name, field string, fieldType dst.Expr) *dst.FuncDecl {
	param := ParamName(field, recv.Name)

	decl := &dst.FuncDecl{
		Recv: recv.Field(true),
		Name: dst.NewIdent(name),
		Type: &dst.FuncType{
			Params: &dst.FieldList{
				List: []*dst.Field{
					{
						Names: []*dst.Ident{dst.NewIdent(param)},
						Type:  dst.Clone(fieldType).(dst.Expr),
					},
				},
			},
		},
		Body: Block(
			&dst.AssignStmt{
				Lhs: []dst.Expr{fieldSelector(recv.Name, field)},
				Tok: token.ASSIGN,
				Rhs: []dst.Expr{dst.NewIdent(param)},
			},
		),
	}

	DocComment(decl, fmt.Sprintf("%s sets the value of %s.", name, field))
	SpaceDecl(decl)
	return decl
}

// Wither returns a method with a value receiver that returns a copy of the
// receiver with one field replaced:
//
//	// WithX returns a copy of p with x set to the given value.
//	func (p Point) WithX(x int) Point {
//		p.x = x
//		return p
//	}
func Wither(recv Receiver, name, field string, fieldType dst.Expr) *dst.FuncDecl {
	param := ParamName(field, recv.Name)

	decl := &dst.FuncDecl{
		Recv: recv.Field(false),
		Name: dst.NewIdent(name),
		Type: &dst.FuncType{
			Params: &dst.FieldList{
				List: []*dst.Field{
					{
						Names: []*dst.Ident{dst.NewIdent(param)},
						Type:  dst.Clone(fieldType).(dst.Expr),
					},
				},
			},
			Results: &dst.FieldList{
				List: []*dst.Field{
					{
						Type: dst.Clone(recv.Type).(dst.Expr),
					},
				},
			},
		},
		Body: Block(
			&dst.AssignStmt{
				Lhs: []dst.Expr{fieldSelector(recv.Name, field)},
				Tok: token.ASSIGN,
				Rhs: []dst.Expr{dst.NewIdent(param)},
			},
			&dst.ReturnStmt{
				Results: []dst.Expr{dst.NewIdent(recv.Name)},
			},
		),
	}

	DocComment(decl, fmt.Sprintf("%s returns a copy of %s with %s set to the given value.", name, recv.Name, field))
	SpaceDecl(decl)
	return decl
}
