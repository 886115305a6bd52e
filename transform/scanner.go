package transform

import (
	"github.com/newrelic/go-easy-annotations/node"
)

// Scan walks types and returns every annotation that has a handler in
// registry.
//
// Within a type, fields come before method-like members, each in source order,
// and annotations are taken in source order. Member types are visited after
// the members of the type that declares them. A type reachable twice is only
// visited once. The result is computed before any handler runs, so nothing
// appended by a handler can be part of it.
func Scan(registry *Registry, types []*node.TypeDeclaration) []Match {
	s := scanner{
		registry: registry,
		visited:  map[*node.TypeDeclaration]bool{},
	}
	for _, t := range types {
		s.scanType(t)
	}
	return s.matches
}

type scanner struct {
	registry *Registry
	visited  map[*node.TypeDeclaration]bool
	matches  []Match
}

func (s *scanner) scanType(t *node.TypeDeclaration) {
	if t == nil || s.visited[t] {
		return
	}
	s.visited[t] = true

	for _, member := range t.Members() {
		for _, annotation := range member.MemberAnnotations() {
			if annotation == nil {
				continue
			}
			handler, ok := s.registry.Lookup(annotation.SimpleName())
			if !ok {
				continue
			}
			s.matches = append(s.matches, Match{
				Type:       t,
				Member:     member,
				Annotation: annotation,
				Handler:    handler,
			})
		}
	}

	for _, nested := range t.MemberTypes {
		s.scanType(nested)
	}
}
