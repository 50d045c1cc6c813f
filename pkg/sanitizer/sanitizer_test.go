package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Sprint planning", "Sprint planning"},
		{"leading and trailing space", "  Sprint planning  ", "Sprint planning"},
		{"inner whitespace collapsed", "Sprint \t  planning", "Sprint planning"},
		{"case preserved", "Conference A", "Conference A"},
		{"only whitespace", "   \t ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com ", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeEmail(tt.input); got != tt.want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeEmails(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			"dedupes case-insensitively keeping first-seen order",
			[]string{"Alice@example.com", "bob@example.com", "alice@EXAMPLE.com"},
			[]string{"alice@example.com", "bob@example.com"},
		},
		{
			"drops empties",
			[]string{"", "  ", "alice@example.com"},
			[]string{"alice@example.com"},
		},
		{
			"empty input yields empty non-nil slice",
			[]string{},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeEmails(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeEmails(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
