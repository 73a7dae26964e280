package core

import "strings"

var separatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// NormalizeHeader canonicalizes a header for matching: lowercase, trimmed,
// underscores and hyphens as spaces, whitespace runs collapsed to one space.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = separatorReplacer.Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func normalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}
