package node

import (
	"regexp"
	"strings"
)

// Annotation is a reference to a marker annotation as written in source.
//
// In Go source an annotation is a comment line of the form
//
//	//@Getter
//	// @Setter(chain)
//	// @lombok.Getter
//
// TypeName holds the name exactly as written. Nothing is resolved against
// imports.
type Annotation struct {
	TypeName string
	Args     []string
	Target   Member

	// Comment is the decoration line the annotation was read from.
	Comment string
}

// SimpleName returns the trailing identifier of the written name, which is
// the only key used to find a handler. Annotations from different packages
// sharing a trailing identifier can not be told apart.
func (a *Annotation) SimpleName() string {
	if a == nil {
		return ""
	}
	if i := strings.LastIndexByte(a.TypeName, '.'); i >= 0 {
		return a.TypeName[i+1:]
	}
	return a.TypeName
}

// Arg returns the i-th argument, or "" if there is none.
func (a *Annotation) Arg(i int) string {
	if a == nil || i < 0 || i >= len(a.Args) {
		return ""
	}
	return a.Args[i]
}

func (a *Annotation) String() string {
	if a == nil {
		return "<nil>"
	}
	if len(a.Args) == 0 {
		return "@" + a.TypeName
	}
	return "@" + a.TypeName + "(" + strings.Join(a.Args, ", ") + ")"
}

var annotationComment = regexp.MustCompile(`^//\s*@([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*(?:\(([^()]*)\))?\s*$`)

// ParseAnnotation reads an annotation from a single comment line. It returns
// false if the line is not an annotation.
func ParseAnnotation(comment string) (*Annotation, bool) {
	match := annotationComment.FindStringSubmatch(strings.TrimSpace(comment))
	if match == nil {
		return nil, false
	}

	a := &Annotation{
		TypeName: match[1],
		Comment:  comment,
	}
	if args := strings.TrimSpace(match[2]); args != "" {
		for _, arg := range strings.Split(args, ",") {
			a.Args = append(a.Args, strings.TrimSpace(arg))
		}
	}
	return a, true
}

// ParseAnnotations reads every annotation from a list of comment lines, in
// order, and sets target on each of them. Lines that are not annotations are
// ignored.
func ParseAnnotations(target Member, comments ...[]string) []*Annotation {
	var annotations []*Annotation
	for _, lines := range comments {
		for _, line := range lines {
			a, ok := ParseAnnotation(line)
			if !ok {
				continue
			}
			a.Target = target
			annotations = append(annotations, a)
		}
	}
	return annotations
}
