package util

import (
	"strings"

	"github.com/dave/dst"
	"github.com/davecgh/go-spew/spew"
)

// DebugPrint returns a string representation of the given node.
// This is useful for debugging purposes, and will pretty print
// the structure of a node in human readable form.
//
// Do Not Use: This function is only for debugging purposes.
func DebugPrint(node dst.Node) string {
	objString := strings.Builder{}
	_ = dst.Fprint(&objString, node, dst.NotNilFilter)
	return objString.String()
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                4,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump returns a depth limited, human readable dump of v. The node model is
// full of back references and host syntax, so anything deeper than a few
// levels is cut off.
//
// Do Not Use: This function is only for debugging purposes.
func Dump(v any) string {
	return dumper.Sdump(v)
}
