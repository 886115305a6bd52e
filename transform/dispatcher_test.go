package transform

import (
	"errors"
	"testing"

	"github.com/newrelic/go-easy-annotations/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// call records a single handler invocation.
type call struct {
	annotation string
	typeName   string
	member     string
}

type recorder struct {
	calls []call
}

func (r *recorder) record(a *node.Annotation, t *node.TypeDeclaration, m node.Member) {
	r.calls = append(r.calls, call{annotation: a.TypeName, typeName: t.Name, member: m.MemberName()})
}

// accessor appends one method named after the target member. When flag is
// false, the method is appended without the suppression bit.
func (r *recorder) accessor(flag bool) HandlerFunc {
	return func(a *node.Annotation, t *node.TypeDeclaration, m node.Member) error {
		r.record(a, t, m)
		method := &node.MethodDeclaration{Name: "get_" + m.MemberName()}
		if flag {
			method.Bits.Suppress()
		}
		t.AppendMethod(method)
		return nil
	}
}

type problems struct {
	errs []*HandlerError
}

func (p *problems) ReportProblem(err *HandlerError) {
	p.errs = append(p.errs, err)
}

func annotate(m node.Member, names ...string) []*node.Annotation {
	var annotations []*node.Annotation
	for _, name := range names {
		annotations = append(annotations, &node.Annotation{TypeName: name, Target: m})
	}
	return annotations
}

func field(name string, annotations ...string) *node.FieldDeclaration {
	f := &node.FieldDeclaration{Name: name}
	f.Annotations = annotate(f, annotations...)
	return f
}

func method(name string, annotations ...string) *node.MethodDeclaration {
	m := &node.MethodDeclaration{Name: name}
	m.Annotations = annotate(m, annotations...)
	return m
}

func point(fieldAnnotation string) *node.TypeDeclaration {
	return &node.TypeDeclaration{
		Name: "Point",
		Fields: []*node.FieldDeclaration{
			field("x", fieldAnnotation),
			field("y", fieldAnnotation),
		},
		Methods: []node.MethodLike{method("Len")},
	}
}

func newDispatcher(t *testing.T, entries ...Entry) *Dispatcher {
	t.Helper()
	registry, err := NewRegistry(entries...)
	require.NoError(t, err)
	return NewDispatcher(registry)
}

func methodNames(t *node.TypeDeclaration) []string {
	var names []string
	for _, m := range t.Methods {
		names = append(names, m.MemberName())
	}
	return names
}

func TestTransformCompilationUnit_Point(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, Entry{Name: "Getter", Handler: rec.accessor(true)})

	typ := point("Getter")
	x, y := typ.Fields[0], typ.Fields[1]
	unit := &node.CompilationUnit{Types: []*node.TypeDeclaration{typ}}

	d.TransformCompilationUnit(nil, unit)

	assert.Equal(t, []call{
		{annotation: "Getter", typeName: "Point", member: "x"},
		{annotation: "Getter", typeName: "Point", member: "y"},
	}, rec.calls)
	assert.Equal(t, []*node.FieldDeclaration{x, y}, typ.Fields)
	assert.Equal(t, []string{"Len", "get_x", "get_y"}, methodNames(typ))
	for _, m := range typ.Methods[1:] {
		assert.True(t, m.Flags().Suppressed(), "%s must be flagged", m.MemberName())
		assert.Same(t, typ, m.Owner())
	}
	assert.Equal(t, Stats{Matches: 2, Applied: 2, Generated: 2}, d.Stats())
}

func TestTransformCompilationUnit_UnregisteredAnnotation(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, Entry{Name: "Getter", Handler: rec.accessor(true)})

	typ := point("Setter")
	unit := &node.CompilationUnit{Types: []*node.TypeDeclaration{typ}}

	d.TransformCompilationUnit(nil, unit)

	assert.Empty(t, rec.calls)
	assert.Len(t, typ.Fields, 2)
	assert.Equal(t, []string{"Len"}, methodNames(typ))
	assert.Equal(t, Stats{}, d.Stats())
}

func TestTransformCompilationUnit_Absent(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, Entry{Name: "Getter", Handler: rec.accessor(true)})

	tests := []struct {
		name string
		unit *node.CompilationUnit
	}{
		{name: "nil unit", unit: nil},
		{name: "nil types", unit: &node.CompilationUnit{}},
		{name: "empty types", unit: &node.CompilationUnit{Types: []*node.TypeDeclaration{}}},
		{name: "nil type", unit: &node.CompilationUnit{Types: []*node.TypeDeclaration{nil}}},
		{name: "type without members", unit: &node.CompilationUnit{Types: []*node.TypeDeclaration{{Name: "Empty"}}}},
		{
			name: "nil members and annotations",
			unit: &node.CompilationUnit{Types: []*node.TypeDeclaration{{
				Name:        "Sparse",
				Fields:      []*node.FieldDeclaration{nil, {Name: "x"}, {Name: "y", Annotations: []*node.Annotation{nil}}},
				Methods:     []node.MethodLike{nil, (*node.MethodDeclaration)(nil), &node.Initializer{}},
				MemberTypes: []*node.TypeDeclaration{nil},
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				d.TransformCompilationUnit(nil, tt.unit)
			})
		})
	}
	assert.Empty(t, rec.calls)
}

func TestTransformCompilationUnit_Ordering(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t,
		Entry{Name: "A", Handler: rec.accessor(true)},
		Entry{Name: "B", Handler: rec.accessor(true)},
	)

	inner := &node.TypeDeclaration{
		Name:   "Inner",
		Fields: []*node.FieldDeclaration{field("i", "A")},
	}
	outer := &node.TypeDeclaration{
		Name:        "Outer",
		Methods:     []node.MethodLike{method("m", "B", "Unknown", "A")},
		Fields:      []*node.FieldDeclaration{field("f1", "B"), field("f2", "lib.A")},
		MemberTypes: []*node.TypeDeclaration{inner},
	}
	second := &node.TypeDeclaration{
		Name:   "Second",
		Fields: []*node.FieldDeclaration{field("s", "A")},
	}
	unit := &node.CompilationUnit{Types: []*node.TypeDeclaration{outer, second}}

	d.TransformCompilationUnit(nil, unit)

	assert.Equal(t, []call{
		{annotation: "B", typeName: "Outer", member: "f1"},
		{annotation: "lib.A", typeName: "Outer", member: "f2"},
		{annotation: "B", typeName: "Outer", member: "m"},
		{annotation: "A", typeName: "Outer", member: "m"},
		{annotation: "A", typeName: "Inner", member: "i"},
		{annotation: "A", typeName: "Second", member: "s"},
	}, rec.calls)
	assert.Equal(t, []string{"m", "get_f1", "get_f2", "get_m", "get_m"}, methodNames(outer))
}

func TestTransformCompilationUnit_NoRescanOfGeneratedMembers(t *testing.T) {
	calls := 0
	var generate HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		calls++
		generated := &node.MethodDeclaration{Name: "gen_" + m.MemberName()}
		generated.Annotations = annotate(generated, "Generate")
		generated.Bits.Suppress()
		typ.AppendMethod(generated)
		typ.Fields = append(typ.Fields, field("gen_"+m.MemberName(), "Generate"))
		return nil
	}
	d := newDispatcher(t, Entry{Name: "Generate", Handler: generate})

	typ := &node.TypeDeclaration{
		Name:   "Loop",
		Fields: []*node.FieldDeclaration{field("seed", "Generate")},
	}
	unit := &node.CompilationUnit{Types: []*node.TypeDeclaration{typ}}

	d.TransformCompilationUnit(nil, unit)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"gen_seed"}, methodNames(typ))
	assert.Len(t, typ.Fields, 2)
}

func TestTransformCompilationUnit_FlagsForgottenSuppression(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, Entry{Name: "Getter", Handler: rec.accessor(false)})

	typ := point("Getter")
	d.TransformCompilationUnit(nil, &node.CompilationUnit{Types: []*node.TypeDeclaration{typ}})

	require.Len(t, typ.Methods, 3)
	assert.False(t, typ.Methods[0].Flags().Suppressed(), "source members are left alone")
	assert.True(t, typ.Methods[1].Flags().Suppressed())
	assert.True(t, typ.Methods[2].Flags().Suppressed())
	assert.Equal(t, int64(2), d.Stats().Flagged)
}

func TestTransformCompilationUnit_HandlerFailureIsolation(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")

	var failing HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		typ.AppendMethod(&node.MethodDeclaration{Name: "partial"})
		return boom
	}
	var panicking HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		typ.AppendMethod(&node.MethodDeclaration{Name: "partial"})
		panic("handler bug")
	}
	var replacing HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		typ.Fields[0] = &node.FieldDeclaration{Name: "replaced"}
		return nil
	}
	var removing HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		typ.Methods = typ.Methods[:0]
		return nil
	}

	d := newDispatcher(t,
		Entry{Name: "Getter", Handler: rec.accessor(true)},
		Entry{Name: "Fail", Handler: failing},
		Entry{Name: "Panic", Handler: panicking},
		Entry{Name: "Replace", Handler: replacing},
		Entry{Name: "Remove", Handler: removing},
	)

	a := field("a", "Getter")
	b := field("b", "Fail", "Panic", "Replace", "Remove")
	c := field("c", "Getter")
	typ := &node.TypeDeclaration{
		Name:   "Mixed",
		Fields: []*node.FieldDeclaration{a, b, c},
	}
	other := &node.TypeDeclaration{
		Name:   "Other",
		Fields: []*node.FieldDeclaration{field("o", "Panic", "Getter")},
	}

	p := &problems{}
	d.TransformCompilationUnit(p, &node.CompilationUnit{Types: []*node.TypeDeclaration{typ, other}})

	assert.Equal(t, []*node.FieldDeclaration{a, b, c}, typ.Fields)
	assert.Equal(t, []string{"get_a", "get_c"}, methodNames(typ))
	assert.Equal(t, []string{"get_o"}, methodNames(other))

	require.Len(t, p.errs, 5)
	assert.ErrorIs(t, p.errs[0], boom)
	assert.ErrorIs(t, p.errs[1], ErrHandlerPanic)
	assert.ErrorIs(t, p.errs[2], ErrExistingMemberChanged)
	assert.ErrorIs(t, p.errs[3], ErrExistingMemberChanged)
	assert.ErrorIs(t, p.errs[4], ErrHandlerPanic)
	assert.Same(t, b, p.errs[0].Target)
	assert.Same(t, typ, p.errs[0].Type)
	assert.Equal(t, "Fail", p.errs[0].Annotation.TypeName)
	assert.Equal(t, "@Fail on field b of Mixed: boom", p.errs[0].Error())

	assert.Equal(t, Stats{Matches: 8, Applied: 3, Failed: 5, Generated: 3}, d.Stats())
}

func TestTransformCompilationUnit_AliasedAnnotation(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, Entry{Name: "Getter", Handler: rec.accessor(true)})

	x := field("x", "Getter")
	typ := &node.TypeDeclaration{Name: "Alias", Fields: []*node.FieldDeclaration{x, x}}
	typ.MemberTypes = []*node.TypeDeclaration{typ}

	d.TransformCompilationUnit(nil, &node.CompilationUnit{Types: []*node.TypeDeclaration{typ, typ}})

	assert.Len(t, rec.calls, 1)
}

func TestTransformBodies(t *testing.T) {
	rec := &recorder{}
	d := newDispatcher(t, Entry{Name: "Getter", Handler: rec.accessor(true)})

	local := func(name string) []*node.TypeDeclaration {
		return []*node.TypeDeclaration{{
			Name:   name,
			Local:  true,
			Fields: []*node.FieldDeclaration{field("v", "Getter")},
		}}
	}

	m := method("Run", "Getter")
	m.LocalTypes = local("inMethod")
	c := &node.ConstructorDeclaration{Name: "NewPoint"}
	c.LocalTypes = local("inConstructor")
	i := &node.Initializer{}
	i.LocalTypes = local("inInitializer")

	d.TransformMethod(nil, m)
	d.TransformConstructor(nil, c)
	d.TransformInitializer(nil, i)

	assert.Equal(t, []call{
		{annotation: "Getter", typeName: "inMethod", member: "v"},
		{annotation: "Getter", typeName: "inConstructor", member: "v"},
		{annotation: "Getter", typeName: "inInitializer", member: "v"},
	}, rec.calls, "a body pass only looks at the types declared in the body")

	assert.NotPanics(t, func() {
		d.TransformMethod(nil, nil)
		d.TransformConstructor(nil, nil)
		d.TransformInitializer(nil, nil)
		d.TransformMethod(nil, &node.MethodDeclaration{})
	})
	assert.Len(t, rec.calls, 3)
}

func TestDispatcher_NilRegistry(t *testing.T) {
	d := NewDispatcher(nil)
	typ := point("Getter")
	assert.NotPanics(t, func() {
		d.TransformCompilationUnit(nil, &node.CompilationUnit{Types: []*node.TypeDeclaration{typ}})
	})
	assert.Equal(t, []string{"Len"}, methodNames(typ))
}

func TestTransformCompilationUnit_FlagsAppendedMemberTypes(t *testing.T) {
	var builder HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		build := &node.MethodDeclaration{Name: "Build"}
		reset := &node.MethodDeclaration{Name: "Reset"}
		typ.MemberTypes = append(typ.MemberTypes, &node.TypeDeclaration{
			Name:    "Builder",
			Methods: []node.MethodLike{build},
			MemberTypes: []*node.TypeDeclaration{{
				Name:    "Options",
				Methods: []node.MethodLike{reset},
			}},
		})
		return nil
	}
	d := newDispatcher(t, Entry{Name: "Builder", Handler: builder})

	typ := &node.TypeDeclaration{
		Name:   "Request",
		Fields: []*node.FieldDeclaration{field("url", "Builder")},
	}
	d.TransformCompilationUnit(nil, &node.CompilationUnit{Types: []*node.TypeDeclaration{typ}})

	require.Len(t, typ.MemberTypes, 1)
	b := typ.MemberTypes[0]
	require.Len(t, b.Methods, 1)
	assert.True(t, b.Methods[0].Flags().Suppressed())
	assert.Same(t, b, b.Methods[0].Owner())

	require.Len(t, b.MemberTypes, 1)
	o := b.MemberTypes[0]
	assert.True(t, o.Methods[0].Flags().Suppressed())
	assert.Same(t, o, o.Methods[0].Owner())

	assert.Equal(t, Stats{Matches: 1, Applied: 1, Generated: 1, Flagged: 2}, d.Stats())
}

func TestTransformCompilationUnit_RollsBackOtherTypes(t *testing.T) {
	boom := errors.New("boom")
	var leaking HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		other := typ.Unit.Types[1]
		other.AppendMethod(&node.MethodDeclaration{Name: "leak"})
		other.MemberTypes[0].AppendMethod(&node.MethodDeclaration{Name: "leak"})
		typ.AppendMethod(&node.MethodDeclaration{Name: "partial"})
		if m.MemberName() == "fail" {
			return boom
		}
		return nil
	}
	d := newDispatcher(t, Entry{Name: "Leak", Handler: leaking})

	nested := &node.TypeDeclaration{Name: "Nested"}
	other := &node.TypeDeclaration{Name: "Other", MemberTypes: []*node.TypeDeclaration{nested}}
	typ := &node.TypeDeclaration{
		Name:   "Source",
		Fields: []*node.FieldDeclaration{field("fail", "Leak"), field("succeed", "Leak")},
	}
	unit := &node.CompilationUnit{Types: []*node.TypeDeclaration{typ, other}}
	typ.Unit, other.Unit = unit, unit

	p := &problems{}
	d.TransformCompilationUnit(p, unit)

	assert.Empty(t, typ.Methods)
	assert.Empty(t, other.Methods)
	assert.Empty(t, nested.Methods)

	require.Len(t, p.errs, 2)
	assert.ErrorIs(t, p.errs[0], boom)
	assert.ErrorIs(t, p.errs[1], ErrForeignMember)
	assert.Equal(t, Stats{Matches: 2, Failed: 2}, d.Stats())
}

func TestTransformMethod_RollsBackOuterType(t *testing.T) {
	var outerAppend HandlerFunc = func(a *node.Annotation, typ *node.TypeDeclaration, m node.Member) error {
		typ.Unit.Types[0].AppendMethod(&node.MethodDeclaration{Name: "fromLocal"})
		return nil
	}
	d := newDispatcher(t, Entry{Name: "Outer", Handler: outerAppend})

	outer := &node.TypeDeclaration{Name: "Outer"}
	unit := &node.CompilationUnit{Types: []*node.TypeDeclaration{outer}}
	outer.Unit = unit

	run := method("Run")
	run.LocalTypes = []*node.TypeDeclaration{{
		Name:   "local",
		Local:  true,
		Unit:   unit,
		Fields: []*node.FieldDeclaration{field("v", "Outer")},
	}}
	outer.AppendMethod(run)

	p := &problems{}
	d.TransformMethod(p, run)

	assert.Equal(t, []string{"Run"}, methodNames(outer))
	require.Len(t, p.errs, 1)
	assert.ErrorIs(t, p.errs[0], ErrForeignMember)
}
