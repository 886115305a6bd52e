package util

import (
	"go/token"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Position returns the position in the original source of a node decorated
// by dec. Nodes created after decoration have no position and return nil.
func Position(node dst.Node, dec *decorator.Decorator) *token.Position {
	if node == nil || dec == nil || dec.Fset == nil {
		return nil
	}

	astNode := dec.Ast.Nodes[node]
	if astNode == nil {
		return nil
	}

	pos := dec.Fset.Position(astNode.Pos())
	return &pos
}
