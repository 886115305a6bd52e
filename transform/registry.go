package transform

import (
	"fmt"
	"slices"
	"strings"
)

// Entry binds an annotation simple name to its handler.
type Entry struct {
	Name    string
	Handler Handler
}

func (e Entry) String() string {
	return fmt.Sprintf("{Name: %s, Handler: %T}", e.Name, e.Handler)
}

// Registry maps annotation simple names to handlers. It can not be changed
// once built, so a single Registry can be shared by any number of goroutines.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds a registry from entries. Names must be non-empty simple
// names (no dots), unique, and bound to a non-nil handler.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		handlers: make(map[string]Handler, len(entries)),
	}

	for _, entry := range entries {
		if entry.Name == "" {
			return nil, fmt.Errorf("empty handler name")
		}
		if strings.Contains(entry.Name, ".") {
			return nil, fmt.Errorf("handler name must be a simple name: %s", entry.Name)
		}
		if isNilHandler(entry.Handler) {
			return nil, fmt.Errorf("nil handler for %s", entry.Name)
		}
		if _, ok := r.handlers[entry.Name]; ok {
			return nil, fmt.Errorf("handler already registered: %s", entry.Name)
		}
		r.handlers[entry.Name] = entry.Handler
	}

	return r, nil
}

// isNilHandler reports whether h is nil or wraps a nil function, which
// would only fail once an annotation reaches it.
func isNilHandler(h Handler) bool {
	if h == nil {
		return true
	}
	f, ok := h.(HandlerFunc)
	return ok && f == nil
}

// Lookup returns the handler registered for name. The second value is false
// when nothing is registered, which is not an error.
func (r *Registry) Lookup(name string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handlers)
}
