package handlers

import (
	"sync"

	"github.com/newrelic/go-easy-annotations/transform"
)

// Entries returns the registry entries of every default handler.
func Entries() []transform.Entry {
	return []transform.Entry{
		{Name: "Getter", Handler: Getter{}},
		{Name: "Setter", Handler: Setter{}},
		{Name: "With", Handler: With{}},
		{Name: "Must", Handler: Must{}},
	}
}

// Default returns the process wide registry of the default handlers. It is
// built on first use and shared by every caller afterwards.
var Default = sync.OnceValues(func() (*transform.Registry, error) {
	return transform.NewRegistry(Entries()...)
})
