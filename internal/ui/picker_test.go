package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testItems() []FixItem {
	return []FixItem{
		{ID: "SORT002-0-20", Title: "Add [Sortable] to property", Code: "SORT002", Message: "Property 'Id' must be marked", Path: "a.model"},
		{ID: "SORT001-0-60", Title: "Add [SortableDefault]", Code: "SORT001", Message: "Class 'Audit' has [Sortable]", Path: "a.model"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func drive(t *testing.T, m tea.Model, keys ...string) *pickerModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next
	}
	picker, ok := m.(*pickerModel)
	if !ok {
		t.Fatalf("model type %T", m)
	}
	return picker
}

func TestPickerToggleAndConfirm(t *testing.T) {
	picker := drive(t, NewFixPicker(testItems()), " ", "down", " ", "enter")

	res := picker.Result()
	if res.Canceled {
		t.Fatalf("confirm must not cancel")
	}
	if len(res.SelectedIDs) != 2 || res.SelectedIDs[0] != "SORT002-0-20" || res.SelectedIDs[1] != "SORT001-0-60" {
		t.Fatalf("selected = %v", res.SelectedIDs)
	}
}

func TestPickerToggleTwiceDeselects(t *testing.T) {
	picker := drive(t, NewFixPicker(testItems()), " ", " ", "enter")

	if ids := picker.Result().SelectedIDs; len(ids) != 0 {
		t.Fatalf("expected empty selection, got %v", ids)
	}
}

func TestPickerSelectAllKey(t *testing.T) {
	picker := drive(t, NewFixPicker(testItems()), "a", "enter")

	if ids := picker.Result().SelectedIDs; len(ids) != 2 {
		t.Fatalf("a must select everything, got %v", ids)
	}

	picker = drive(t, NewFixPicker(testItems()), "a", "a", "enter")
	if ids := picker.Result().SelectedIDs; len(ids) != 0 {
		t.Fatalf("second a must clear, got %v", ids)
	}
}

func TestPickerCancel(t *testing.T) {
	picker := drive(t, NewFixPicker(testItems()), " ", "esc")

	res := picker.Result()
	if !res.Canceled || len(res.SelectedIDs) != 0 {
		t.Fatalf("expected canceled empty result, got %+v", res)
	}
}

func TestPickerCursorStaysInBounds(t *testing.T) {
	picker := drive(t, NewFixPicker(testItems()), "up", "down", "down", "down")
	if picker.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", picker.cursor)
	}
}

func TestPickerViewListsCandidates(t *testing.T) {
	picker := drive(t, NewFixPicker(testItems()))
	view := picker.View()
	if !strings.Contains(view, "Add [SortableDefault]") || !strings.Contains(view, "2 candidates") {
		t.Fatalf("view incomplete:\n%s", view)
	}
}
