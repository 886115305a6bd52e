package codegen

import (
	"github.com/dave/dst"
)

// DocComment replaces the doc comment of a declaration with the given lines.
// Each line becomes its own `//` comment.
func DocComment(decl *dst.FuncDecl, lines ...string) {
	comments := make([]string, 0, len(lines))
	for _, line := range lines {
		comments = append(comments, "// "+line)
	}
	decl.Decs.Start.Replace(comments...)
}

// SpaceDecl separates a declaration from its neighbours with an empty line on
// both sides, the way gofmt'd source lays out top level declarations.
func SpaceDecl(decl dst.Decl) {
	decs := decl.Decorations()
	decs.Before = dst.EmptyLine
	decs.After = dst.EmptyLine
}

// Block returns a block holding stmts, each starting on its own line. Without
// this the printer keeps short generated bodies on the line of the signature.
func Block(stmts ...dst.Stmt) *dst.BlockStmt {
	for _, stmt := range stmts {
		stmt.Decorations().Before = dst.NewLine
	}
	return &dst.BlockStmt{List: stmts}
}
