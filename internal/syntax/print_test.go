package syntax

import (
	"testing"
)

const canonicalInput = `[SortableDefault("Name")]
class Product : CatalogItem {
    [Sortable]
    string Name;
    decimal Price;
}

class CatalogItem {
    int64 Id;
}
`

func TestPrintRoundTrip(t *testing.T) {
	unit, bag, _ := parseInput(t, canonicalInput)
	if bag.Len() != 0 {
		t.Fatalf("fixture must parse cleanly: %v", bag.Items())
	}
	if got := Print(unit); got != canonicalInput {
		t.Fatalf("canonical text not stable under parse+print:\n%s", got)
	}
}

func TestPrintSynthesizedAttribute(t *testing.T) {
	unit, _, _ := parseInput(t, "class A {\n    [Sortable]\n    string Name;\n}\n")
	edited := unit.WithClass(0, unit.Classes[0].AddAttr(Attr{
		Name:   AttrSortableDefault,
		Arg:    "Name",
		HasArg: true,
	}))

	want := "[SortableDefault(\"Name\")]\nclass A {\n    [Sortable]\n    string Name;\n}\n"
	if got := Print(edited); got != want {
		t.Fatalf("printed tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintEscapesArgument(t *testing.T) {
	a := Attr{Name: AttrSortableDefault, Arg: `a"b`, HasArg: true}
	if got := formatAttr(a); got != `[SortableDefault("a\"b")]` {
		t.Fatalf("formatAttr = %s", got)
	}
}
