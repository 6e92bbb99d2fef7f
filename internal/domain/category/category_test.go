package category

import "testing"

func TestGetByCode(t *testing.T) {
	c, ok := GetByCode("SERVICES_TUTORING")
	if !ok {
		t.Fatal("expected SERVICES_TUTORING to exist")
	}
	if !c.IsService {
		t.Fatal("expected SERVICES_TUTORING to be a service category")
	}

	c, ok = GetByCode("NOTES_HANDWRITTEN")
	if !ok {
		t.Fatal("expected NOTES_HANDWRITTEN to exist")
	}
	if c.IsService {
		t.Fatal("expected NOTES_HANDWRITTEN to be a goods category")
	}

	if _, ok := GetByCode("NO_SUCH_CATEGORY"); ok {
		t.Fatal("expected unknown code to be rejected")
	}
}

func TestIsService(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"SERVICES_TUTORING", true},
		{"SERVICES_DELIVERY", true},
		{"BOOKS_TEXTBOOKS", false},
		{"MISC", false},
		{"UNKNOWN", false},
	}
	for _, tt := range tests {
		if got := IsService(tt.code); got != tt.want {
			t.Errorf("IsService(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestAllCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range All() {
		if seen[c.Code] {
			t.Fatalf("duplicate category code %q", c.Code)
		}
		seen[c.Code] = true
		if c.Label == "" {
			t.Fatalf("category %q missing label", c.Code)
		}
	}
}
