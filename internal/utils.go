package internal

import (
	"strings"
	"unicode"
)

// Version is the babycards release, reported by --version
const Version = "0.4.0"

// WordSlug turns a vocabulary word into the form used in file and directory
// names: lowercased, whitespace runs replaced by a single underscore
func WordSlug(word string) string {
	return strings.ToLower(strings.Join(strings.Fields(word), "_"))
}

// DisplayWord reverses the underscore form used in file names
func DisplayWord(word string) string {
	return strings.ReplaceAll(word, "_", " ")
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
