// File: internal/domain/id_test.go
package domain

import "testing"

func TestSanitizeID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain-id_1.2", "plain-id_1.2"},
		{"conv 42", "conv_42"},
		{"../escape", ".._escape"},
		{"a/b\\c", "a_b_c"},
		{"ünïcode", "_n_code"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeID(tc.in); got != tc.want {
			t.Errorf("SanitizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewIDIsSanitizerStable(t *testing.T) {
	id := NewID()
	if id == "" {
		t.Fatal("empty generated id")
	}
	if SanitizeID(id) != id {
		t.Fatalf("generated id %q changed under sanitization", id)
	}
}
