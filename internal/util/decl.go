package util

import (
	"regexp"

	"github.com/dave/dst"
)

// ReceiverTypeName returns the name of the type a method is declared on, with
// any pointer and type arguments removed. It returns "" for functions.
func ReceiverTypeName(fn *dst.FuncDecl) string {
	if fn == nil || fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	return BaseTypeName(fn.Recv.List[0].Type)
}

// BaseTypeName returns the name of a local named type referenced by expr:
// T, *T, T[K] and *T[K, V] all return "T". Anything else returns "".
func BaseTypeName(expr dst.Expr) string {
	switch v := expr.(type) {
	case *dst.Ident:
		if v.Path != "" {
			return ""
		}
		return v.Name
	case *dst.StarExpr:
		return BaseTypeName(v.X)
	case *dst.ParenExpr:
		return BaseTypeName(v.X)
	case *dst.IndexExpr:
		return BaseTypeName(v.X)
	case *dst.IndexListExpr:
		return BaseTypeName(v.X)
	default:
		return ""
	}
}

// ConstructedTypeName returns the name of the type built by a constructor
// function: a function without receiver named NewT whose first result is T
// or *T. It returns "" for anything else.
func ConstructedTypeName(fn *dst.FuncDecl) string {
	if fn == nil || fn.Recv != nil || fn.Name == nil || fn.Type == nil {
		return ""
	}
	results := fn.Type.Results
	if results == nil || len(results.List) == 0 {
		return ""
	}

	name := BaseTypeName(results.List[0].Type)
	if name == "" || fn.Name.Name != "New"+name {
		return ""
	}
	return name
}

var generatedHeader = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// IsGenerated reports whether file carries the standard header of generated
// Go source.
func IsGenerated(file *dst.File) bool {
	if file == nil {
		return false
	}
	for _, comment := range file.Decs.Start {
		if generatedHeader.MatchString(comment) {
			return true
		}
	}
	return false
}
