package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

var (
	articlePattern = regexp.MustCompile(`Article\s+(\d+(?:\s*\(\d+\))?)`)
	annexPattern   = regexp.MustCompile(`ANNEX\s+([IVX]+)\b`)
	recitalPattern = regexp.MustCompile(`(?i)\brecitals?\b`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

const (
	sectionTitleLines  = 5
	sectionTitleMinLen = 10
	sectionTitleMaxLen = 100
)

// ExtractRegulationMeta detects the structural position of a regulation
// chunk: the first article it cites, recital and annex markers, and an
// upper-case section heading near its start.
func ExtractRegulationMeta(text string) model.RegulationMeta {
	var meta model.RegulationMeta

	if m := articlePattern.FindStringSubmatch(text); m != nil {
		meta.Article = spacePattern.ReplaceAllString(m[1], "")
	}

	if strings.Contains(text, "HAVE ADOPTED THIS REGULATION") ||
		strings.Contains(text, "Whereas:") ||
		recitalPattern.MatchString(text) {
		meta.IsRecital = true
	}

	if m := annexPattern.FindStringSubmatch(text); m != nil {
		meta.IsAnnex = true
		meta.Annex = m[1]
	}

	meta.SectionTitle = findSectionTitle(text)
	return meta
}

func findSectionTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > sectionTitleLines {
		lines = lines[:sectionTitleLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < sectionTitleMinLen || n > sectionTitleMaxLen {
			continue
		}
		if isUpperCaseTitle(line) {
			return line
		}
	}
	return ""
}

func isUpperCaseTitle(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
