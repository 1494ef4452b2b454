package artist

import "testing"

func TestTitleIsOneBased(t *testing.T) {
	if got := Title("Alice", 0, 3); got != "Alice - 1/3" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := Title("Bob", 2, 3); got != "Bob - 3/3" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestValidate(t *testing.T) {
	var rec Record
	if err := rec.Validate(0); err == nil {
		t.Fatal("expected error for missing id")
	}
	rec.Summary.ID = 5
	if err := rec.Validate(6); err == nil {
		t.Fatal("expected error for mismatched id")
	}
	if err := rec.Validate(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeComposesDisplayName(t *testing.T) {
	// "ガ" written as base katakana + combining voiced mark.
	rec := Record{Summary: Summary{ID: 1, DisplayName: "ガ"}}
	rec.Normalize()
	if rec.Summary.DisplayName != "ガ" {
		t.Fatalf("expected composed form, got %q", rec.Summary.DisplayName)
	}
}
