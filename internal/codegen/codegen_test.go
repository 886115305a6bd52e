package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/stretchr/testify/require"
)

// render prints decls as the body of a file in package p.
func render(t *testing.T, decls ...dst.Decl) string {
	t.Helper()
	file := &dst.File{
		Name:  dst.NewIdent("p"),
		Decls: decls,
	}
	buf := bytes.NewBuffer([]byte{})
	require.NoError(t, decorator.Fprint(buf, file))
	return normalize(buf.String())
}

// normalize drops empty lines so tests do not depend on how the printer
// spaces declarations.
func normalize(src string) string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// parseFunc returns the first function declared in src.
func parseFunc(t *testing.T, src string) *dst.FuncDecl {
	t.Helper()
	file, err := decorator.Parse("package p\n\n" + src)
	require.NoError(t, err)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*dst.FuncDecl); ok {
			return fn
		}
	}
	t.Fatalf("no function in %q", src)
	return nil
}

// parseTypeSpec returns the first type declared in src.
func parseTypeSpec(t *testing.T, src string) *dst.TypeSpec {
	t.Helper()
	file, err := decorator.Parse("package p\n\n" + src)
	require.NoError(t, err)
	for _, decl := range file.Decls {
		if gen, ok := decl.(*dst.GenDecl); ok {
			for _, spec := range gen.Specs {
				if ts, ok := spec.(*dst.TypeSpec); ok {
					return ts
				}
			}
		}
	}
	t.Fatalf("no type in %q", src)
	return nil
}
