package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}

	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Fatalf("cover = %v, want 1:5-20", got)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cover across files must be a no-op, got %v", got)
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{File: 0, Start: 3, End: 7}
	if !s.Contains(3) || !s.Contains(6) {
		t.Fatalf("span must contain its start and interior")
	}
	if s.Contains(7) {
		t.Fatalf("span end is exclusive")
	}
	if s.Empty() {
		t.Fatalf("non-empty span reported empty")
	}
}
