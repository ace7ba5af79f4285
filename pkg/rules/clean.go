package rules

import (
	"regexp"
	"strings"
)

var (
	// Quotes are dropped; line breaks and tabs become spaces and collapse with
	// the surrounding whitespace.
	cleanReplacer = strings.NewReplacer(
		`"`, "",
		"\n", " ",
		"\r", " ",
		"\t", " ",
		"\u2011", "-",
		"\u2012", "-",
		"\u2013", "-",
		"\u2014", "-",
		"\u2015", "-",
		"\u2009", " ",
		"\u00a0", " ",
		"\uff09", ") ",
		"\uff08", " (",
	)

	// <br>, <b>, <p> and <i> fragments, open, close or self-closing.
	markupPattern = regexp.MustCompile(`\s*</?(?:[bB][rR]?|[pP]|[iI]) ?/?>\s*`)

	spacesPattern = regexp.MustCompile(` {2,}`)
)

const mojibakeUmlaut = "ÃƒÂ¼"

// CleanString normalizes free text found in attribute types and values. It is
// idempotent: CleanString(CleanString(s)) == CleanString(s).
func CleanString(s string) string {
	s = strings.Map(xmlSafe, s)
	s = cleanReplacer.Replace(s)
	s = spacesPattern.ReplaceAllString(s, " ")
	for {
		next := markupPattern.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}
	s = strings.ReplaceAll(s, mojibakeUmlaut, "ü")
	s = strings.TrimSpace(s)
	return spacesPattern.ReplaceAllString(s, " ")
}

// xmlSafe drops runes that are not allowed in XML 1.0 documents.
func xmlSafe(r rune) rune {
	switch {
	case r == 0x9, r == 0xA, r == 0xD:
		return r
	case r >= 0x20 && r <= 0xD7FF:
		return r
	case r >= 0xE000 && r <= 0xFFFD:
		return r
	}
	return -1
}
