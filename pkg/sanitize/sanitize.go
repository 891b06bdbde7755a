package sanitize

import "unicode/utf8"

// Summary truncates a description for list previews, cutting back to the
// nearest word boundary.
func Summary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && i < len(s) && s[i] != ' ' {
		i--
	}
	if i <= 0 {
		// No space to cut back to; land on a rune boundary so the cut
		// never splits a multi-byte character.
		i = max
		for i > 0 && !utf8.RuneStart(s[i]) {
			i--
		}
	}
	return s[:i] + "…"
}
