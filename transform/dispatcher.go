package transform

import (
	"sync/atomic"

	"github.com/newrelic/go-easy-annotations/node"
)

// Stats counts what a Dispatcher has done since it was created.
type Stats struct {
	Matches   int64 // annotated declarations with a registered handler
	Applied   int64 // handler applications that succeeded
	Failed    int64 // handler applications that were rolled back
	Generated int64 // members appended by successful applications
	Flagged   int64 // appended method-like members the dispatcher had to flag itself
}

// Dispatcher holds the entry points the host parser calls. It keeps no state
// about the trees it is given, and may be used for several compilation units
// at once.
type Dispatcher struct {
	registry *Registry

	matches   atomic.Int64
	applied   atomic.Int64
	failed    atomic.Int64
	generated atomic.Int64
	flagged   atomic.Int64
}

// NewDispatcher creates a Dispatcher that applies the handlers of registry.
// The registry must be fully built before the first entry point is called.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
	}
}

// Registry returns the registry the dispatcher was built with.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Stats returns a snapshot of the dispatcher's counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Matches:   d.matches.Load(),
		Applied:   d.applied.Load(),
		Failed:    d.failed.Load(),
		Generated: d.generated.Load(),
		Flagged:   d.flagged.Load(),
	}
}

// TransformCompilationUnit is called once the host has finished building unit.
// In diet mode method bodies are not available yet, so only the declarations
// of the unit and their annotations are looked at.
func (d *Dispatcher) TransformCompilationUnit(parser Parser, unit *node.CompilationUnit) {
	if unit == nil {
		return
	}
	d.run(parser, unit.Types)
}

// TransformMethod is called once the host has parsed the body of method.
func (d *Dispatcher) TransformMethod(parser Parser, method *node.MethodDeclaration) {
	if method == nil {
		return
	}
	d.run(parser, method.LocalTypes)
}

// TransformConstructor is called once the host has parsed the body of constructor.
func (d *Dispatcher) TransformConstructor(parser Parser, constructor *node.ConstructorDeclaration) {
	if constructor == nil {
		return
	}
	d.run(parser, constructor.LocalTypes)
}

// TransformInitializer is called once the host has parsed the body of initializer.
func (d *Dispatcher) TransformInitializer(parser Parser, initializer *node.Initializer) {
	if initializer == nil {
		return
	}
	d.run(parser, initializer.LocalTypes)
}

func (d *Dispatcher) run(parser Parser, types []*node.TypeDeclaration) {
	matches := Scan(d.registry, types)
	if len(matches) == 0 {
		return
	}
	d.matches.Add(int64(len(matches)))

	applied := make(map[*node.Annotation]bool, len(matches))
	for _, match := range matches {
		if applied[match.Annotation] {
			log.Debugf("skipping %s on %s: already applied in this pass", match.Annotation, match.Member.MemberName())
			continue
		}
		applied[match.Annotation] = true

		result, err := apply(match, types)
		if err != nil {
			d.failed.Add(1)
			log.Warningf("%s", err.Error())
			if parser != nil {
				parser.ReportProblem(err)
			}
			continue
		}

		d.applied.Add(1)
		d.generated.Add(int64(result.appended))
		d.flagged.Add(int64(result.flagged))
	}
}
