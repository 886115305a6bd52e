package parser

import (
	"fmt"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/newrelic/go-easy-annotations/internal/codegen"
	"github.com/newrelic/go-easy-annotations/internal/comment"
	"github.com/newrelic/go-easy-annotations/node"
	"github.com/newrelic/go-easy-annotations/transform"
)

// fileTransform is the state of the host for a single file. It is used by one
// goroutine at a time.
type fileTransform struct {
	name string
	dec  *decorator.Decorator
	file *dst.File
	unit *node.CompilationUnit

	dispatcher *transform.Dispatcher

	// genDecls holds the declaration each top level type spec belongs to
	genDecls map[*node.TypeDeclaration]*dst.GenDecl

	// original is the set of function declarations read from source
	original map[*dst.FuncDecl]bool

	// bodies holds the bodies detached by the diet parse until they are
	// parsed again, keyed by their declaration
	bodies map[*dst.FuncDecl]*dst.BlockStmt

	problems []error
	lowered  int
}

func newFileTransform(name string, dec *decorator.Decorator, file *dst.File, dispatcher *transform.Dispatcher) *fileTransform {
	return &fileTransform{
		name:       name,
		dec:        dec,
		file:       file,
		dispatcher: dispatcher,
		genDecls:   map[*node.TypeDeclaration]*dst.GenDecl{},
		original:   map[*dst.FuncDecl]bool{},
		bodies:     map[*dst.FuncDecl]*dst.BlockStmt{},
	}
}

// ReportProblem writes the failure as a warning comment on the declaration
// the annotation was placed on.
func (f *fileTransform) ReportProblem(err *transform.HandlerError) {
	if err == nil {
		return
	}
	f.report(f.syntaxOf(err.Type, err.Target), err)
}

func (f *fileTransform) report(syntax dst.Node, err error) {
	f.problems = append(f.problems, Problem{File: f.name, Err: err})

	comment.Warn(f.dec, syntax, err.Error())
}

// syntaxOf returns the host node a comment about member of t should be
// written on.
func (f *fileTransform) syntaxOf(t *node.TypeDeclaration, member node.Member) dst.Node {
	switch m := member.(type) {
	case *node.FieldDeclaration:
		if m != nil && m.Syntax != nil {
			return m.Syntax
		}
	case node.MethodLike:
		if !node.IsNil(m) && m.FuncDecl() != nil {
			return m.FuncDecl()
		}
	}

	if t == nil {
		return nil
	}
	if gen, ok := f.genDecls[t]; ok && !gen.Lparen {
		return gen
	}
	if t.Syntax != nil {
		return t.Syntax
	}
	return nil
}

// run transforms the file: diet parse, the compilation unit pass, one pass
// per parsed body, and finally lowering generated members into the file.
// Bodies detached by the diet parse are always put back.
func (f *fileTransform) run() {
	f.buildUnit()
	f.detachBodies()
	defer f.restoreBodies()

	f.dispatcher.TransformCompilationUnit(f, f.unit)
	f.parseBodies()
	f.lower()
}

// detachBodies removes the bodies of every method-like member from the tree,
// so nothing in the compilation unit pass can see them.
func (f *fileTransform) detachBodies() {
	for _, t := range f.unit.Types {
		for _, m := range t.Methods {
			fn := m.FuncDecl()
			if fn == nil || !f.original[fn] {
				continue
			}
			f.bodies[fn] = fn.Body
			fn.Body = nil
		}
	}
}

func (f *fileTransform) restoreBodies() {
	for fn, body := range f.bodies {
		fn.Body = body
		delete(f.bodies, fn)
	}
}

// parseBodies hands every method-like member that may be parsed its body
// back, discovers the types declared in it and fires the matching entry point.
// Members generated by the compilation unit pass are suppressed and skipped.
func (f *fileTransform) parseBodies() {
	for _, t := range f.unit.Types {
		// generated members appended during the loop are not part of it
		methods := append([]node.MethodLike(nil), t.Methods...)
		for _, m := range methods {
			if node.IsNil(m) || m.Flags().Suppressed() {
				continue
			}

			fn := m.FuncDecl()
			body, ok := f.bodies[fn]
			if fn == nil || !ok {
				f.report(f.syntaxOf(t, m), fmt.Errorf("%w: %s %s of %s", ErrNoSourceBody, m.Kind(), m.MemberName(), t.Name))
				continue
			}
			fn.Body = body
			delete(f.bodies, fn)

			locals := localTypes(body, f.unit)
			setLocals(m, locals)

			switch v := m.(type) {
			case *node.MethodDeclaration:
				f.dispatcher.TransformMethod(f, v)
			case *node.ConstructorDeclaration:
				f.dispatcher.TransformConstructor(f, v)
			case *node.Initializer:
				f.dispatcher.TransformInitializer(f, v)
			}

			for _, local := range locals {
				if n := len(f.generated(local)); n > 0 {
					f.report(f.syntaxOf(local, nil), fmt.Errorf("%w: %d on %s", ErrLocalMembers, n, local.Name))
				}
			}
		}
	}
}

// generated returns the method-like members of t that were not read from source.
func (f *fileTransform) generated(t *node.TypeDeclaration) []*dst.FuncDecl {
	var decls []*dst.FuncDecl
	for _, m := range t.Methods {
		if node.IsNil(m) {
			continue
		}
		fn := m.FuncDecl()
		if fn != nil && !f.original[fn] {
			decls = append(decls, fn)
		}
	}
	return decls
}

// lower writes the declarations of generated members into the file, right
// after the last declaration that belongs to their type.
func (f *fileTransform) lower() {
	after := map[dst.Decl][]*dst.FuncDecl{}
	for _, t := range f.unit.Types {
		decls := f.generated(t)
		if len(decls) == 0 {
			continue
		}

		var anchor dst.Decl = f.genDecls[t]
		owned := map[dst.Decl]bool{anchor: true}
		for _, m := range t.Methods {
			if fn := m.FuncDecl(); fn != nil && f.original[fn] {
				owned[fn] = true
			}
		}
		for _, decl := range f.file.Decls {
			if owned[decl] {
				anchor = decl
			}
		}
		after[anchor] = append(after[anchor], decls...)
	}
	if len(after) == 0 {
		return
	}

	decls := make([]dst.Decl, 0, len(f.file.Decls))
	for _, decl := range f.file.Decls {
		decls = append(decls, decl)
		for _, fn := range after[decl] {
			codegen.SpaceDecl(fn)
			decls = append(decls, fn)
			f.original[fn] = true
			f.lowered++
		}
	}
	f.file.Decls = decls
	log.Debugf("%s: lowered %d generated declarations", f.name, f.lowered)
}
