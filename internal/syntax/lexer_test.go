package syntax

import (
	"testing"

	"sortlint/internal/diag"
	"sortlint/internal/source"
)

func lexAll(t *testing.T, input string) ([]Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.model", []byte(input))
	bag := diag.NewBag(16)
	lx := NewLexer(fs.Get(id), diag.BagReporter{Bag: bag})

	var toks []Token
	for {
		tok := lx.Next()
		if tok.Kind == EOF {
			return toks, bag
		}
		toks = append(toks, tok)
	}
}

func TestLexClassHeader(t *testing.T) {
	toks, bag := lexAll(t, `class Product : CatalogItem {`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	want := []Kind{KwClass, Ident, Colon, Ident, LBrace}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[1].Text != "Product" || toks[3].Text != "CatalogItem" {
		t.Errorf("identifier texts wrong: %q, %q", toks[1].Text, toks[3].Text)
	}
}

func TestLexAttributeWithArgument(t *testing.T) {
	toks, bag := lexAll(t, `[SortableDefault("Name")]`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []Kind{LBracket, Ident, LParen, String, RParen, RBracket}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[3].Text != "Name" {
		t.Fatalf("string value = %q, want %q", toks[3].Text, "Name")
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks, _ := lexAll(t, `"a\"b\\c"`)
	if toks[0].Kind != String || toks[0].Text != `a"b\c` {
		t.Fatalf("escaped string = %q (%v)", toks[0].Text, toks[0].Kind)
	}
}

func TestLexSkipsComments(t *testing.T) {
	toks, bag := lexAll(t, "// header\nclass /* inline */ A")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(toks) != 2 || toks[0].Kind != KwClass || toks[1].Text != "A" {
		t.Fatalf("comments leaked into token stream: %v", toks)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	toks, bag := lexAll(t, `"oops`)
	if toks[0].Kind != Invalid {
		t.Fatalf("expected Invalid token, got %v", toks[0].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynUnterminatedString {
		t.Fatalf("expected one SynUnterminatedString diagnostic, got %v", bag.Items())
	}
}

func TestLexUnknownChar(t *testing.T) {
	_, bag := lexAll(t, "class A @")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynUnknownChar {
		t.Fatalf("expected one SynUnknownChar diagnostic, got %v", bag.Items())
	}
}
