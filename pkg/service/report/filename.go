package report

import (
	"strings"
	"unicode"
)

const maxStemLength = 80

// FileStem converts a system name into the prefix of report file names.
// Spaces become underscores; path separators and other ASCII symbols
// except '-', '_' and '.' are dropped. Non-ASCII letters are kept.
func FileStem(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			sb.WriteRune('_')
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		case r < 128:
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				sb.WriteRune(r)
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		}
	}

	stem := strings.Trim(sb.String(), "._")
	if runes := []rune(stem); len(runes) > maxStemLength {
		stem = strings.TrimRight(string(runes[:maxStemLength]), "._")
	}
	if stem == "" {
		return "unnamed_system"
	}
	return stem
}
