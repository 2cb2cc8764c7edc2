package rules

import (
	"context"
	"testing"

	"sortlint/internal/diag"
	"sortlint/internal/facts"
	"sortlint/internal/source"
	"sortlint/internal/syntax"
)

func factsFor(t *testing.T, input string) *facts.Set {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.model", []byte(input))
	bag := diag.NewBag(32)
	unit := syntax.ParseFile(fs.Get(id), diag.BagReporter{Bag: bag}, syntax.Options{})
	if bag.HasErrors() {
		t.Fatalf("fixture must parse cleanly: %v", bag.Items())
	}
	return facts.Extract([]*syntax.Unit{unit}, diag.BagReporter{Bag: bag})
}

func evalClass(t *testing.T, set *facts.Set, name string, rs RuleSet) []Violation {
	t.Helper()
	id, ok := set.Lookup(set.Names().Intern(name))
	if !ok {
		t.Fatalf("class %s not found", name)
	}
	return NewEvaluator(set, rs, DefaultWhitelist()).EvaluateClass(id)
}

func kinds(vs []Violation) []ViolationKind {
	out := make([]ViolationKind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func TestWellFormedClassHasNoViolations(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Name")]
class Product {
    [Sortable]
    string Name;
    decimal Price;
}
`)
	if vs := evalClass(t, set, "Product", RuleSetExtended); len(vs) != 0 {
		t.Fatalf("violations = %v", kinds(vs))
	}
}

func TestEmptyClassIsWellFormed(t *testing.T) {
	set := factsFor(t, `class Plain { string Name; }`)
	if vs := evalClass(t, set, "Plain", RuleSetExtended); len(vs) != 0 {
		t.Fatalf("class without markers must be clean, got %v", kinds(vs))
	}
}

func TestMissingDefault(t *testing.T) {
	set := factsFor(t, `
class Product {
    [Sortable]
    string Name;
}
`)
	vs := evalClass(t, set, "Product", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationMissingDefault {
		t.Fatalf("violations = %v, want exactly one missing-default", kinds(vs))
	}
}

func TestUnusedDefault(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Name")]
class Product {
    string Name;
}
`)
	vs := evalClass(t, set, "Product", RuleSetBaseline)
	// The marker names an existing but unmarked property: both unused-default
	// and invalid-default-ref fire, in that order.
	want := []ViolationKind{ViolationUnusedDefault, ViolationInvalidDefaultRef}
	got := kinds(vs)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("violations = %v, want %v", got, want)
	}
}

func TestUnusedDefaultOnlyWhenRefResolves(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Name")]
class Base {
    [Sortable]
    string Name;
}
class Derived : Base {
}
`)
	// Derived inherits both the marker and the sortable property: clean.
	if vs := evalClass(t, set, "Derived", RuleSetBaseline); len(vs) != 0 {
		t.Fatalf("inherited marker and property must satisfy the rules, got %v", kinds(vs))
	}
}

func TestInvalidRefNonexistentProperty(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Ghost")]
class Product {
    [Sortable]
    string Name;
}
`)
	vs := evalClass(t, set, "Product", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("violations = %v, want exactly one invalid-default-ref", kinds(vs))
	}
	if set.NameOf(vs[0].Property) != "Ghost" {
		t.Fatalf("violation carries %q, want the referenced name", set.NameOf(vs[0].Property))
	}
	if !vs[0].PropSpan.Empty() {
		t.Fatalf("nonexistent property must not resolve to a span")
	}
}

func TestInvalidRefUnmarkedProperty(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Price")]
class Product {
    [Sortable]
    string Name;
    decimal Price;
}
`)
	vs := evalClass(t, set, "Product", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("violations = %v", kinds(vs))
	}
	if vs[0].PropSpan.Empty() {
		t.Fatalf("existing property must resolve to its span")
	}
}

func TestNearestDefaultMarkerWins(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Ghost")]
class Root {
    [Sortable]
    string Name;
}
[SortableDefault("Name")]
class Mid : Root {
}
class Leaf : Mid {
}
`)
	// Leaf resolves Mid's marker; Root's broken one is shadowed, not merged.
	// Lookup is own-class-then-marker-owner only: neither Leaf nor Mid has
	// an own "Name", so the ref is invalid even though Root declares a
	// sortable "Name" in between.
	vs := evalClass(t, set, "Leaf", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("violations = %v, want invalid-default-ref via marker-owner lookup", kinds(vs))
	}

	// Mid itself shows the same shape.
	vs = evalClass(t, set, "Mid", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("Mid violations = %v", kinds(vs))
	}

	// Root's own marker names a property that does not exist on Root.
	vs = evalClass(t, set, "Root", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("Root violations = %v", kinds(vs))
	}
}

func TestRefResolvesOnMarkerOwner(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Name")]
class Base {
    [Sortable]
    string Name;
}
class Derived : Base {
    [Sortable]
    int32 Rank;
}
`)
	// Derived has no own "Name"; the lookup falls back to Base, the class
	// that declared the marker, where "Name" is sortable.
	if vs := evalClass(t, set, "Derived", RuleSetBaseline); len(vs) != 0 {
		t.Fatalf("marker-owner resolution failed: %v", kinds(vs))
	}
}

func TestOwnMemberShadowsMarkerOwner(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Name")]
class Base {
    [Sortable]
    string Name;
}
class Derived : Base {
    string Name;
}
`)
	// Derived redeclares "Name" without the marker; own members are checked
	// first, so the unmarked redeclaration wins and the ref is invalid.
	vs := evalClass(t, set, "Derived", RuleSetBaseline)
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("violations = %v, want invalid-default-ref", kinds(vs))
	}
}

func TestSortableUnionKeepsDuplicateNames(t *testing.T) {
	set := factsFor(t, `
class Base {
    [Sortable]
    string Name;
}
[SortableDefault("Name")]
class Derived : Base {
    [Sortable]
    string Name;
}
`)
	e := NewEvaluator(set, RuleSetExtended, DefaultWhitelist())
	id, _ := set.Lookup(set.Names().Intern("Derived"))
	if vs := e.EvaluateClass(id); len(vs) != 0 {
		t.Fatalf("violations = %v", kinds(vs))
	}
	// Both declarations are in the union; inherited-only sortables are not
	// deduplicated by name.
	if got := len(e.sortableProps(id)); got != 2 {
		t.Fatalf("sortable union size = %d, want 2", got)
	}
}

func TestInvalidTypeExtendedOnly(t *testing.T) {
	input := `
[SortableDefault("Name")]
class Product {
    [Sortable]
    string Name;
    [Sortable]
    blob Payload;
    [Sortable]
    json Extra;
}
`
	set := factsFor(t, input)

	base := evalClass(t, set, "Product", RuleSetBaseline)
	if len(base) != 0 {
		t.Fatalf("baseline must not check types, got %v", kinds(base))
	}

	ext := evalClass(t, set, "Product", RuleSetExtended)
	if len(ext) != 2 {
		t.Fatalf("extended violations = %v, want 2 invalid-type", kinds(ext))
	}
	for _, v := range ext {
		if v.Kind != ViolationInvalidType {
			t.Fatalf("unexpected kind %v", v.Kind)
		}
	}
	// Declaration order preserved.
	if set.NameOf(ext[0].Property) != "Payload" || set.NameOf(ext[1].Property) != "Extra" {
		t.Fatalf("order = %s, %s", set.NameOf(ext[0].Property), set.NameOf(ext[1].Property))
	}
	if set.NameOf(ext[0].TypeName) != "blob" {
		t.Fatalf("type carried = %s", set.NameOf(ext[0].TypeName))
	}
}

func TestWhitelistCoversAllDocumentedTypes(t *testing.T) {
	w := DefaultWhitelist()
	for _, typ := range []string{
		"string", "int16", "int32", "int64", "uint16", "uint32", "uint64",
		"float32", "float64", "decimal", "date", "dateoffset",
	} {
		if !w.Allows(typ) {
			t.Errorf("whitelist must allow %s", typ)
		}
	}
	if w.Allows("blob") {
		t.Errorf("whitelist must reject unknown identifiers")
	}
}

func TestWhitelistExtendDoesNotMutateReceiver(t *testing.T) {
	w := DefaultWhitelist()
	extended := w.Extend([]string{"money"})
	if w.Allows("money") {
		t.Fatalf("Extend mutated the receiver")
	}
	if !extended.Allows("money") || !extended.Allows("string") {
		t.Fatalf("extended whitelist incomplete")
	}
}

func TestBaselineAndExtendedAgreeOnMarkerRules(t *testing.T) {
	set := factsFor(t, `
[SortableDefault("Ghost")]
class A {
    [Sortable]
    blob Payload;
}
`)
	base := evalClass(t, set, "A", RuleSetBaseline)
	ext := evalClass(t, set, "A", RuleSetExtended)

	if len(base) != 1 || base[0].Kind != ViolationInvalidDefaultRef {
		t.Fatalf("baseline = %v", kinds(base))
	}
	if len(ext) != 2 || ext[0].Kind != ViolationInvalidDefaultRef || ext[1].Kind != ViolationInvalidType {
		t.Fatalf("extended = %v", kinds(ext))
	}
	if base[0] != ext[0] {
		t.Fatalf("rule sets disagree on shared rules: %+v vs %+v", base[0], ext[0])
	}
}

func TestEvaluateAllMatchesSequentialOrder(t *testing.T) {
	set := factsFor(t, `
class A { [Sortable] string X; }
[SortableDefault("Y")]
class B { string Y; }
class C : A { }
`)
	e := NewEvaluator(set, RuleSetExtended, DefaultWhitelist())

	parallel, err := e.EvaluateAll(context.Background())
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}

	classes := set.All()
	if len(parallel) != len(classes) {
		t.Fatalf("got %d batches, want %d", len(parallel), len(classes))
	}
	for i, cf := range classes {
		seq := e.EvaluateClass(cf.ID)
		if len(seq) != len(parallel[i]) {
			t.Fatalf("class %s: parallel %v vs sequential %v",
				set.NameOf(cf.Name), kinds(parallel[i]), kinds(seq))
		}
		for j := range seq {
			if seq[j] != parallel[i][j] {
				t.Fatalf("class %s violation %d differs", set.NameOf(cf.Name), j)
			}
		}
	}
}

func TestEvaluateAllHonorsCancellation(t *testing.T) {
	set := factsFor(t, `class A { [Sortable] string X; }`)
	e := NewEvaluator(set, RuleSetBaseline, DefaultWhitelist())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.EvaluateAll(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
