package parser

import (
	"go/token"

	"github.com/dave/dst"
	"github.com/newrelic/go-easy-annotations/internal/util"
	"github.com/newrelic/go-easy-annotations/node"
)

// buildUnit reads the declarations of file into the node model, the way a
// diet parse would: bodies are not looked at, so no local types are known.
// Methods and constructors of types declared in other files of the package
// are not part of this unit.
func (f *fileTransform) buildUnit() {
	f.unit = &node.CompilationUnit{
		Name:   f.name,
		Syntax: f.file,
	}

	byName := map[string]*node.TypeDeclaration{}
	// declared[i] is the last type declared at or before file.Decls[i]
	declared := make([]*node.TypeDeclaration, len(f.file.Decls))
	var last *node.TypeDeclaration

	for i, decl := range f.file.Decls {
		if gen, ok := decl.(*dst.GenDecl); ok && gen.Tok == token.TYPE {
			for _, spec := range gen.Specs {
				ts, ok := spec.(*dst.TypeSpec)
				if !ok || ts.Name == nil {
					continue
				}
				t := newTypeDeclaration(ts, f.unit, false)
				f.unit.Types = append(f.unit.Types, t)
				f.genDecls[t] = gen
				byName[t.Name] = t
				last = t
			}
		}
		declared[i] = last
	}

	for i, decl := range f.file.Decls {
		fn, ok := decl.(*dst.FuncDecl)
		if !ok || fn.Name == nil {
			continue
		}

		var (
			owner  *node.TypeDeclaration
			method node.MethodLike
		)
		base := node.MethodBase{Syntax: fn}

		switch {
		case fn.Recv != nil:
			owner = byName[util.ReceiverTypeName(fn)]
			method = &node.MethodDeclaration{Name: fn.Name.Name, MethodBase: base}
		case fn.Name.Name == initFunction:
			owner = declared[i]
			if owner == nil && len(f.unit.Types) > 0 {
				owner = f.unit.Types[0]
			}
			method = &node.Initializer{MethodBase: base}
		default:
			owner = byName[util.ConstructedTypeName(fn)]
			method = &node.ConstructorDeclaration{Name: fn.Name.Name, MethodBase: base}
		}
		if owner == nil {
			continue
		}

		setAnnotations(method, node.ParseAnnotations(method, fn.Decs.Start))
		owner.AppendMethod(method)
		f.original[fn] = true
	}
}

// newTypeDeclaration maps a type spec to the node model. Only struct types
// have fields; any other named type is a type without fields that can still
// own methods and constructors.
func newTypeDeclaration(spec *dst.TypeSpec, unit *node.CompilationUnit, local bool) *node.TypeDeclaration {
	t := &node.TypeDeclaration{
		Name:   spec.Name.Name,
		Unit:   unit,
		Local:  local,
		Syntax: spec,
	}

	st, ok := spec.Type.(*dst.StructType)
	if !ok || st.Fields == nil {
		return t
	}

	for _, field := range st.Fields.List {
		names := make([]string, 0, len(field.Names))
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
		if len(names) == 0 {
			names = append(names, embeddedName(field.Type))
		}

		for _, name := range names {
			fd := &node.FieldDeclaration{
				Name:   name,
				Type:   field.Type,
				Syntax: field,
			}
			fd.Annotations = node.ParseAnnotations(fd, field.Decs.Start, field.Decs.End)
			t.Fields = append(t.Fields, fd)
		}
	}
	return t
}

// embeddedName is the implicit field name of an embedded type.
func embeddedName(expr dst.Expr) string {
	switch v := expr.(type) {
	case *dst.Ident:
		return v.Name
	case *dst.SelectorExpr:
		return v.Sel.Name
	case *dst.StarExpr:
		return embeddedName(v.X)
	case *dst.IndexExpr:
		return embeddedName(v.X)
	case *dst.IndexListExpr:
		return embeddedName(v.X)
	default:
		return ""
	}
}

func setAnnotations(m node.MethodLike, annotations []*node.Annotation) {
	switch v := m.(type) {
	case *node.MethodDeclaration:
		v.Annotations = annotations
	case *node.ConstructorDeclaration:
		v.Annotations = annotations
	case *node.Initializer:
		v.Annotations = annotations
	}
}

func setLocals(m node.MethodLike, locals []*node.TypeDeclaration) {
	switch v := m.(type) {
	case *node.MethodDeclaration:
		v.LocalTypes = locals
	case *node.ConstructorDeclaration:
		v.LocalTypes = locals
	case *node.Initializer:
		v.LocalTypes = locals
	}
}

// localTypes finds every type declared inside body, including the ones in
// nested blocks and function literals.
func localTypes(body *dst.BlockStmt, unit *node.CompilationUnit) []*node.TypeDeclaration {
	if body == nil {
		return nil
	}

	var locals []*node.TypeDeclaration
	dst.Inspect(body, func(n dst.Node) bool {
		stmt, ok := n.(*dst.DeclStmt)
		if !ok {
			return true
		}
		gen, ok := stmt.Decl.(*dst.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			return false
		}
		for _, spec := range gen.Specs {
			if ts, ok := spec.(*dst.TypeSpec); ok && ts.Name != nil {
				locals = append(locals, newTypeDeclaration(ts, unit, true))
			}
		}
		return false
	})
	return locals
}
