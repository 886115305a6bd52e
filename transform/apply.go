package transform

import (
	"fmt"
	"slices"

	"github.com/newrelic/go-easy-annotations/node"
)

type applyResult struct {
	appended int
	flagged  int
}

// memberSnapshot is a copy of the member sequences of a type, taken before a
// handler runs.
type memberSnapshot struct {
	fields      []*node.FieldDeclaration
	methods     []node.MethodLike
	memberTypes []*node.TypeDeclaration
}

func takeSnapshot(t *node.TypeDeclaration) memberSnapshot {
	return memberSnapshot{
		fields:      slices.Clone(t.Fields),
		methods:     slices.Clone(t.Methods),
		memberTypes: slices.Clone(t.MemberTypes),
	}
}

// restore puts the member sequences of t back to what they were.
func (s memberSnapshot) restore(t *node.TypeDeclaration) {
	t.Fields = s.fields
	t.Methods = s.methods
	t.MemberTypes = s.memberTypes
}

// unchanged returns true if every member of the snapshot is still in place,
// at the same position.
func (s memberSnapshot) unchanged(t *node.TypeDeclaration) bool {
	return hasPrefix(t.Fields, s.fields) &&
		hasPrefix(t.Methods, s.methods) &&
		hasPrefix(t.MemberTypes, s.memberTypes)
}

// grown returns true if members were added to t after the snapshot.
func (s memberSnapshot) grown(t *node.TypeDeclaration) bool {
	return len(t.Fields) > len(s.fields) ||
		len(t.Methods) > len(s.methods) ||
		len(t.MemberTypes) > len(s.memberTypes)
}

func hasPrefix[E comparable](s, prefix []E) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}

// treeSnapshot holds a memberSnapshot of every type a handler can reach from
// a pass: the types of the pass, the other types of their compilation units,
// and all of their member types.
type treeSnapshot map[*node.TypeDeclaration]memberSnapshot

func takeTreeSnapshot(types []*node.TypeDeclaration, enclosing *node.TypeDeclaration) treeSnapshot {
	s := treeSnapshot{}
	var visit func(t *node.TypeDeclaration)
	visit = func(t *node.TypeDeclaration) {
		if t == nil {
			return
		}
		if _, ok := s[t]; ok {
			return
		}
		s[t] = takeSnapshot(t)
		for _, nested := range t.MemberTypes {
			visit(nested)
		}
		if t.Unit != nil {
			for _, sibling := range t.Unit.Types {
				visit(sibling)
			}
		}
	}

	visit(enclosing)
	for _, t := range types {
		visit(t)
	}
	return s
}

func (s treeSnapshot) restore() {
	for t, snapshot := range s {
		snapshot.restore(t)
	}
}

// check returns the reason the handler's changes can not be kept, or nil.
// Existing members must stay where they were, and only enclosing may grow.
func (s treeSnapshot) check(enclosing *node.TypeDeclaration) error {
	for t, snapshot := range s {
		if !snapshot.unchanged(t) {
			return ErrExistingMemberChanged
		}
		if t != enclosing && snapshot.grown(t) {
			return fmt.Errorf("%w: %s", ErrForeignMember, t.Name)
		}
	}
	return nil
}

// apply runs the handler of match against its type. When the handler fails,
// panics, changes members that were already there, or appends to any type but
// the enclosing one, every type reachable from the pass is put back the way it
// was before the handler ran.
func apply(match Match, types []*node.TypeDeclaration) (result applyResult, herr *HandlerError) {
	t := match.Type
	snapshot := takeTreeSnapshot(types, t)
	enclosing := snapshot[t]

	fail := func(err error) {
		snapshot.restore()
		herr = &HandlerError{
			Annotation: match.Annotation,
			Type:       t,
			Target:     match.Member,
			Err:        err,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("%w: %v", ErrHandlerPanic, r))
		}
	}()

	log.Debugf("applying %s to %s %s of %s", match.Annotation, match.Member.Kind(), match.Member.MemberName(), t.Name)
	if err := match.Handler.Apply(match.Annotation, t, match.Member); err != nil {
		fail(err)
		return result, herr
	}

	if err := snapshot.check(t); err != nil {
		fail(err)
		return result, herr
	}

	result.appended = len(t.Fields) - len(enclosing.fields) +
		len(t.Methods) - len(enclosing.methods) +
		len(t.MemberTypes) - len(enclosing.memberTypes)

	result.flagged = flagMethods(match.Annotation, t, t.Methods[len(enclosing.methods):])
	visited := map[*node.TypeDeclaration]bool{t: true}
	for _, nested := range t.MemberTypes[len(enclosing.memberTypes):] {
		result.flagged += flagType(match.Annotation, nested, visited)
	}
	return result, nil
}

// flagMethods sets the suppression bit and the declaring type on appended
// method-like members that lack them. It returns how many it had to flag.
func flagMethods(annotation *node.Annotation, t *node.TypeDeclaration, methods []node.MethodLike) int {
	flagged := 0
	for _, m := range methods {
		if node.IsNil(m) {
			continue
		}
		if m.Owner() == nil {
			m.SetOwner(t)
		}
		flags := m.Flags()
		if !flags.Suppressed() {
			log.Warningf("%s appended %s %s to %s without suppressing reparse", annotation, m.Kind(), m.MemberName(), t.Name)
			flags.Suppress()
			flagged++
		}
	}
	return flagged
}

// flagType flags every method-like member of an appended member type, and of
// the member types nested in it. None of them come from source text.
func flagType(annotation *node.Annotation, t *node.TypeDeclaration, visited map[*node.TypeDeclaration]bool) int {
	if t == nil || visited[t] {
		return 0
	}
	visited[t] = true

	flagged := flagMethods(annotation, t, t.Methods)
	for _, nested := range t.MemberTypes {
		flagged += flagType(annotation, nested, visited)
	}
	return flagged
}
