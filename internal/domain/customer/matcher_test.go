package customer

import "testing"

func directory() []Customer {
	return []Customer{
		{ID: "1", Name: "Ana", Surname: "Gomez"},
		{ID: "2", Name: "Juan", Surname: "Perez"},
		{ID: "3", Name: "Marta", Surname: "Fernandez"},
	}
}

func TestSearchSubstringOverFullName(t *testing.T) {
	got := Search(directory(), "an")
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3 (Ana, Juan, Fernandez all contain 'an')", len(got))
	}
	// snapshot order, no ranking
	if got[0].ID != "1" || got[1].ID != "2" || got[2].ID != "3" {
		t.Fatalf("order changed: %v", got)
	}

	got = Search(directory(), "PEREZ")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("case-insensitive surname match failed: %v", got)
	}

	got = Search(directory(), "ana g")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("match should span name and surname: %v", got)
	}
}

func TestSearchQueryTooShort(t *testing.T) {
	if got := Search(directory(), "a"); got != nil {
		t.Fatalf("single-rune query should return nothing, got %v", got)
	}
	if got := Search(directory(), ""); got != nil {
		t.Fatalf("empty query should return nothing, got %v", got)
	}
}

func TestPickerSelectAndClear(t *testing.T) {
	p := NewPicker(directory())

	p.SetQuery("ju")
	if res := p.Results(); len(res) != 1 || res[0].ID != "2" {
		t.Fatalf("results = %v, want Juan", res)
	}
	if p.NoMatches() {
		t.Fatal("NoMatches should be false when results exist")
	}

	p.Select(Customer{ID: "2", Name: "Juan", Surname: "Perez"})
	sel, ok := p.Selected()
	if !ok || sel.ID != "2" {
		t.Fatalf("selected = %v %v, want Juan", sel, ok)
	}
	if p.Input() != "Juan" {
		t.Fatalf("input = %q, want the selected name", p.Input())
	}

	p.Clear()
	if _, ok := p.Selected(); ok {
		t.Fatal("clear should drop the selection")
	}
	if p.Input() != "" {
		t.Fatalf("input = %q, want empty after clear", p.Input())
	}
}

func TestPickerNoMatchesCue(t *testing.T) {
	p := NewPicker(directory())
	p.SetQuery("zz")
	if !p.NoMatches() {
		t.Fatal("long-enough query with no hits should signal NoMatches")
	}
	p.SetQuery("z")
	if p.NoMatches() {
		t.Fatal("too-short query must not signal NoMatches")
	}
}

func TestPickerDirectoryRefreshMidQuery(t *testing.T) {
	p := NewPicker(nil)
	p.SetQuery("ana")
	if res := p.Results(); res != nil {
		t.Fatalf("empty directory should match nothing, got %v", res)
	}
	p.SetDirectory(directory())
	if res := p.Results(); len(res) != 1 || res[0].ID != "1" {
		t.Fatalf("results after refresh = %v, want Ana", res)
	}
}
