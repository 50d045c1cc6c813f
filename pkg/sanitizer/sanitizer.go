package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reCollapseSpaces = regexp.MustCompile(`\s+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseSpaces(s string) string {
	return reCollapseSpaces.ReplaceAllString(s, " ")
}

// SanitizeText normalizes free text such as booking descriptions and room
// names: trimmed, inner whitespace collapsed, case preserved.
func SanitizeText(input string) string {
	p := Pipeline{
		trim,
		collapseSpaces,
	}
	return p.Apply(input)
}

// SanitizeEmail lowercases and trims an address. Emails compare
// case-insensitively everywhere in this service.
func SanitizeEmail(input string) string {
	return trimAndLower(input)
}

// SanitizeEmails normalizes a list of addresses, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeEmails(values []string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := SanitizeEmail(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
