// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Email lowercases and trims an email address. Emails are stored and
// compared in this form everywhere.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// TitleCase capitalizes the first letter of each word and lowercases the
// rest ("acme blood bank" -> "Acme Blood Bank"). Used for organizer names.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// Collaborators accepts either a list of partner names or a single
// comma-separated string and returns a trimmed list with empty entries
// dropped. A nil/empty input yields an empty (non-nil) list.
func Collaborators(list []string, raw string) []string {
	src := list
	if src == nil && raw != "" {
		src = strings.Split(raw, ",")
	}
	out := make([]string, 0, len(src))
	for _, c := range src {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
