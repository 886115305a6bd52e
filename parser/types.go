// Package parser is the Go host of the transformation engine. It turns each
// Go source file into the node model, drives the transform entry points in the
// order a diet parsing host would, and writes the generated members back into
// the file.
package parser

import (
	"errors"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("parser")

var (
	// ErrNoSourceBody is reported for a method-like node that is about to have
	// its body parsed but has no source text and no suppression flag.
	ErrNoSourceBody = errors.New("no source body to parse and reparse is not suppressed")

	// ErrLocalMembers is reported when members were generated for a type
	// declared inside a function body. They can not be written as Go source.
	ErrLocalMembers = errors.New("members generated for a function-local type were dropped")
)

const (
	// DefaultDiffFileName is the name of the diff file written to the root of
	// the transformed application when no other name is given.
	DefaultDiffFileName = "easy-annotations.diff"

	// initFunction is the name of package initialization functions.
	initFunction = "init"
)

// Problem is an issue found while transforming one file.
type Problem struct {
	File string
	Err  error
}

func (p Problem) Error() string {
	return p.File + ": " + p.Err.Error()
}

func (p Problem) Unwrap() error {
	return p.Err
}
