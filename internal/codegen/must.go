package codegen

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/dave/dst"
)

// ErrNotFallible is returned by Must for functions that do not return
// `error` or `(T, error)`.
var ErrNotFallible = errors.New("function must return error or (T, error)")

type param struct {
	name string
	typ  dst.Expr
}

// flatten expands a field list into one entry per declared name. Unnamed and
// blank entries are given a generated name of the form prefix0, prefix1, ...
func flatten(list *dst.FieldList, prefix string) []param {
	if list == nil {
		return nil
	}

	var params []param
	for _, field := range list.List {
		if len(field.Names) == 0 {
			params = append(params, param{typ: field.Type})
			continue
		}
		for _, n := range field.Names {
			params = append(params, param{name: n.Name, typ: field.Type})
		}
	}

	taken := make([]string, 0, len(params))
	for _, p := range params {
		taken = append(taken, p.name)
	}
	for i := range params {
		if params[i].name == "" || params[i].name == "_" {
			params[i].name = FreeName(fmt.Sprintf("%s%d", prefix, i), taken...)
			taken = append(taken, params[i].name)
		}
	}
	return params
}

func isErrorType(expr dst.Expr) bool {
	ident, ok := expr.(*dst.Ident)
	return ok && ident.Name == "error" && ident.Path == ""
}

// typeArguments returns the names of the type parameters of a function.
func typeArguments(list *dst.FieldList) []dst.Expr {
	if list == nil {
		return nil
	}
	var args []dst.Expr
	for _, field := range list.List {
		for _, n := range field.Names {
			args = append(args, dst.NewIdent(n.Name))
		}
	}
	return args
}

// Must returns a declaration named name that calls fn with the same arguments
// and panics if it returns a non-nil error:
//
//	// MustParse is like Parse but panics if Parse returns an error.
//	func (c *Config) MustParse(s string) Value {
//		v, err := c.Parse(s)
//		if err != nil {
//			panic(err)
//		}
//		return v
//	}
//
// Methods keep their receiver and generic functions keep their type
// parameters. fn itself is not modified.
func Must(fn *dst.FuncDecl, name string) (*dst.FuncDecl, error) {
	if fn == nil || fn.Name == nil || fn.Type == nil {
		return nil, fmt.Errorf("%w: no declaration", ErrNotFallible)
	}

	results := flatten(fn.Type.Results, "r")
	if len(results) == 0 || len(results) > 2 || !isErrorType(results[len(results)-1].typ) {
		return nil, fmt.Errorf("%w: %s", ErrNotFallible, fn.Name.Name)
	}

	params := flatten(fn.Type.Params, "p")
	taken := make([]string, 0, len(params)+1)
	for _, p := range params {
		taken = append(taken, p.name)
	}

	decl := &dst.FuncDecl{
		Name: dst.NewIdent(name),
		Type: &dst.FuncType{
			Params: &dst.FieldList{},
		},
	}

	var callee dst.Expr = dst.NewIdent(fn.Name.Name)
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		recv := dst.Clone(fn.Recv.List[0]).(*dst.Field)
		if len(recv.Names) == 0 || recv.Names[0].Name == "_" {
			recv.Names = []*dst.Ident{dst.NewIdent(FreeName("r", taken...))}
		}
		recv.Decs = dst.FieldDecorations{}
		taken = append(taken, recv.Names[0].Name)
		decl.Recv = &dst.FieldList{List: []*dst.Field{recv}}
		callee = &dst.SelectorExpr{
			X:   dst.NewIdent(recv.Names[0].Name),
			Sel: dst.NewIdent(fn.Name.Name),
		}
	} else if fn.Type.TypeParams != nil {
		decl.Type.TypeParams = dst.Clone(fn.Type.TypeParams).(*dst.FieldList)
		switch args := typeArguments(fn.Type.TypeParams); len(args) {
		case 0:
		case 1:
			callee = &dst.IndexExpr{X: callee, Index: args[0]}
		default:
			callee = &dst.IndexListExpr{X: callee, Indices: args}
		}
	}

	call := &dst.CallExpr{Fun: callee}
	for i, p := range params {
		decl.Type.Params.List = append(decl.Type.Params.List, &dst.Field{
			Names: []*dst.Ident{dst.NewIdent(p.name)},
			Type:  dst.Clone(p.typ).(dst.Expr),
		})
		call.Args = append(call.Args, dst.NewIdent(p.name))
		if _, variadic := p.typ.(*dst.Ellipsis); variadic && i == len(params)-1 {
			call.Ellipsis = true
		}
	}

	errName := FreeName("err", taken...)
	if len(results) == 1 {
		decl.Body = Block(
			&dst.IfStmt{
				Init: &dst.AssignStmt{
					Lhs: []dst.Expr{dst.NewIdent(errName)},
					Tok: token.DEFINE,
					Rhs: []dst.Expr{call},
				},
				Cond: notNil(errName),
				Body: panicWith(errName),
			},
		)
	} else {
		valueName := FreeName("v", append(taken, errName)...)
		decl.Type.Results = &dst.FieldList{
			List: []*dst.Field{
				{
					Type: dst.Clone(results[0].typ).(dst.Expr),
				},
			},
		}
		decl.Body = Block(
			&dst.AssignStmt{
				Lhs: []dst.Expr{dst.NewIdent(valueName), dst.NewIdent(errName)},
				Tok: token.DEFINE,
				Rhs: []dst.Expr{call},
			},
			&dst.IfStmt{
				Cond: notNil(errName),
				Body: panicWith(errName),
			},
			&dst.ReturnStmt{
				Results: []dst.Expr{dst.NewIdent(valueName)},
			},
		)
	}

	DocComment(decl, fmt.Sprintf("%s is like %s but panics if %s returns an error.", name, fn.Name.Name, fn.Name.Name))
	SpaceDecl(decl)
	return decl, nil
}

func notNil(name string) *dst.BinaryExpr {
	return &dst.BinaryExpr{
		X:  dst.NewIdent(name),
		Op: token.NEQ,
		Y:  dst.NewIdent("nil"),
	}
}

func panicWith(name string) *dst.BlockStmt {
	return Block(
		&dst.ExprStmt{
			X: &dst.CallExpr{
				Fun:  dst.NewIdent("panic"),
				Args: []dst.Expr{dst.NewIdent(name)},
			},
		},
	)
}
