package comment

import (
	"fmt"
	"slices"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

const (
	InfoHeader string = "GEA INFO"
	WarnHeader string = "GEA WARN"
)

// Info appends an easy annotations info comment to the node.
// This function is used to add comments that will be written to the transformed code.
// The message is the main comment, and additionalInfo is a list of optional
// comments that will be printed on new lines below the main comment.
func Info(dec *decorator.Decorator, node dst.Node, message string, additionalInfo ...string) {
	add(dec, node, InfoHeader, message, additionalInfo...)
}

// Warn appends an easy annotations warning comment to the node, and mirrors it
// on the console printer if one is enabled.
func Warn(dec *decorator.Decorator, node dst.Node, message string, additionalInfo ...string) {
	add(dec, node, WarnHeader, message, additionalInfo...)
}

func add(dec *decorator.Decorator, node dst.Node, header, message string, additionalInfo ...string) {
	printer.Add(dec, node, header, message, additionalInfo...)
	if node == nil {
		return
	}

	comments := []string{
		fmt.Sprintf("// %s: %s", header, message),
	}
	for _, info := range additionalInfo {
		comments = append(comments, fmt.Sprintf("// %s", info))
	}

	decs := node.Decorations()

	// running the tool twice over written files must not stack the same comment
	if slices.Contains(decs.Start, comments[0]) {
		return
	}
	if len(decs.Start) > 0 {
		comments = append(comments, "//")
	}

	decs.Start.Prepend(comments...)
}
