// Package node is the tree that the host parser builds for one source file and
// that the transformation engine reads and appends to.
//
// Every reference in this tree may be nil. A host running in diet mode leaves
// method bodies detached and local types undiscovered until it parses each body,
// so code walking the tree must check every field before using it.
package node

import (
	"github.com/dave/dst"
)

// CompilationUnit is the root of the tree for a single source file.
type CompilationUnit struct {
	Name   string // file name as reported by the host
	Types  []*TypeDeclaration
	Syntax *dst.File
}

// TypeDeclaration is a named type and the members declared for it.
//
// Methods holds every method-like member (methods, constructors and
// initializers) in source order.
type TypeDeclaration struct {
	Name        string
	Fields      []*FieldDeclaration
	Methods     []MethodLike
	MemberTypes []*TypeDeclaration

	// Unit is a back reference to the compilation unit that declares this type.
	Unit *CompilationUnit

	// Local is true for types declared inside a function body.
	Local bool

	Syntax *dst.TypeSpec
}

// Member is any declaration owned by a TypeDeclaration that can carry annotations.
type Member interface {
	MemberName() string
	MemberAnnotations() []*Annotation
	Kind() Kind
}

// MethodLike is a member with a body: a method, a constructor or an initializer.
type MethodLike interface {
	Member
	Flags() *Bits
	FuncDecl() *dst.FuncDecl
	Locals() []*TypeDeclaration
	Owner() *TypeDeclaration
	SetOwner(t *TypeDeclaration)
}

// Kind identifies the concrete type of a Member.
type Kind uint8

const (
	KindField Kind = iota + 1
	KindMethod
	KindConstructor
	KindInitializer
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindInitializer:
		return "initializer"
	default:
		return "unknown"
	}
}

// FieldDeclaration is a single named field of a struct type. A field
// declaring several names produces one FieldDeclaration per name.
type FieldDeclaration struct {
	Name        string
	Type        dst.Expr
	Annotations []*Annotation
	Syntax      *dst.Field
}

func (f *FieldDeclaration) MemberName() string               { return f.Name }
func (f *FieldDeclaration) MemberAnnotations() []*Annotation { return f.Annotations }
func (f *FieldDeclaration) Kind() Kind                       { return KindField }

// MethodBase holds what the method-like declarations have in common.
type MethodBase struct {
	Bits        Bits
	Annotations []*Annotation

	// Syntax is the host declaration. In diet mode Syntax.Body is nil until
	// the host parses the body.
	Syntax *dst.FuncDecl

	// LocalTypes are the types declared inside the body. They are only known
	// once the body has been parsed.
	LocalTypes []*TypeDeclaration

	// DeclaringType is a back reference to the type that owns this member.
	DeclaringType *TypeDeclaration
}

func (b *MethodBase) MemberAnnotations() []*Annotation { return b.Annotations }
func (b *MethodBase) Flags() *Bits                     { return &b.Bits }
func (b *MethodBase) FuncDecl() *dst.FuncDecl          { return b.Syntax }
func (b *MethodBase) Locals() []*TypeDeclaration       { return b.LocalTypes }
func (b *MethodBase) Owner() *TypeDeclaration          { return b.DeclaringType }
func (b *MethodBase) SetOwner(t *TypeDeclaration)      { b.DeclaringType = t }

// MethodDeclaration is a method with a receiver of the declaring type.
type MethodDeclaration struct {
	MethodBase
	Name string
}

func (m *MethodDeclaration) MemberName() string { return m.Name }
func (m *MethodDeclaration) Kind() Kind         { return KindMethod }

// ConstructorDeclaration is a function that builds a value of the declaring type.
type ConstructorDeclaration struct {
	MethodBase
	Name string
}

func (c *ConstructorDeclaration) MemberName() string { return c.Name }
func (c *ConstructorDeclaration) Kind() Kind         { return KindConstructor }

// Initializer is a block of code that runs once when the declaring type's
// package is initialized.
type Initializer struct {
	MethodBase
}

func (i *Initializer) MemberName() string { return "init" }
func (i *Initializer) Kind() Kind         { return KindInitializer }

// Members returns the fields of t followed by its method-like members, in
// source order. The returned slice is a copy.
func (t *TypeDeclaration) Members() []Member {
	if t == nil {
		return nil
	}
	members := make([]Member, 0, len(t.Fields)+len(t.Methods))
	for _, f := range t.Fields {
		if f != nil {
			members = append(members, f)
		}
	}
	for _, m := range t.Methods {
		if !IsNil(m) {
			members = append(members, m)
		}
	}
	return members
}

// IsNil returns true if m is nil or holds a nil pointer.
func IsNil(m Member) bool {
	switch v := m.(type) {
	case nil:
		return true
	case *FieldDeclaration:
		return v == nil
	case *MethodDeclaration:
		return v == nil
	case *ConstructorDeclaration:
		return v == nil
	case *Initializer:
		return v == nil
	default:
		return false
	}
}

// HasMember returns true if t already declares a member with the given name.
func (t *TypeDeclaration) HasMember(name string) bool {
	for _, m := range t.Members() {
		if m.MemberName() == name {
			return true
		}
	}
	return false
}

// AppendMethod adds m to the end of t's method-like members, and sets t as
// its declaring type.
func (t *TypeDeclaration) AppendMethod(m MethodLike) {
	if t == nil || IsNil(m) {
		return
	}
	m.SetOwner(t)
	t.Methods = append(t.Methods, m)
}
