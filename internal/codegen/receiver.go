package codegen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/dst"
)

// Receiver describes the receiver of a generated method.
type Receiver struct {
	Name string
	Type dst.Expr // the named type, with its type parameters if it is generic
}

// NewReceiver returns the receiver for methods of the type declared by spec.
// If spec is nil, typeName is used on its own.
func NewReceiver(typeName string, spec *dst.TypeSpec) Receiver {
	return Receiver{
		Name: ReceiverName(typeName),
		Type: TypeReference(typeName, spec),
	}
}

// Field returns a receiver field for a method declaration. The type is a
// pointer to the receiver type when pointer is true.
func (r Receiver) Field(pointer bool) *dst.FieldList {
	typ := dst.Clone(r.Type).(dst.Expr)
	if pointer {
		typ = &dst.StarExpr{X: typ}
	}
	return &dst.FieldList{
		List: []*dst.Field{
			{
				Names: []*dst.Ident{dst.NewIdent(r.Name)},
				Type:  typ,
			},
		},
	}
}

// ReceiverName returns the conventional receiver name for a type: its first
// letter in lower case.
func ReceiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "r"
	}
	return string(unicode.ToLower(r))
}

// TypeReference returns an expression that refers to the type declared by
// spec, instantiated with its own type parameters: T, T[K] or T[K, V].
func TypeReference(typeName string, spec *dst.TypeSpec) dst.Expr {
	name := dst.NewIdent(typeName)
	if spec == nil || spec.TypeParams == nil {
		return name
	}

	var params []dst.Expr
	for _, field := range spec.TypeParams.List {
		for _, n := range field.Names {
			params = append(params, dst.NewIdent(n.Name))
		}
	}

	switch len(params) {
	case 0:
		return name
	case 1:
		return &dst.IndexExpr{X: name, Index: params[0]}
	default:
		return &dst.IndexListExpr{X: name, Indices: params}
	}
}

// ParamName returns a parameter name for a value stored in field. The name
// never collides with a Go keyword or with any of the taken names.
func ParamName(field string, taken ...string) string {
	name := lowerFirst(field)
	if name == "" || name == "_" || token.IsKeyword(name) {
		name = "v"
	}
	return FreeName(name, taken...)
}

// FreeName returns base, or base followed by the smallest number that makes
// it differ from every taken name.
func FreeName(base string, taken ...string) string {
	isTaken := func(name string) bool {
		for _, t := range taken {
			if t == name {
				return true
			}
		}
		return false
	}

	if !isTaken(base) {
		return base
	}
	for i := 1; ; i++ {
		name := base + strconv.Itoa(i)
		if !isTaken(name) {
			return name
		}
	}
}

// Exported returns name with its first letter in upper case.
func Exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// IsExported reports whether name starts with an upper case letter.
func IsExported(name string) bool {
	return token.IsExported(name)
}

func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	// keep initialisms readable: URL -> url, ID -> id
	if strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	return string(unicode.ToLower(r)) + name[size:]
}
