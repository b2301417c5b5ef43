package tts

import (
	"regexp"
	"strings"
)

// Spoken replacements for field jargon. Expansions must not contain any key,
// otherwise the substitution loop in SanitizeForSpeech never reaches a fixed
// point.
var spokenReplacements = []struct {
	from string
	to   string
}{
	{"dbm", "decibéis"},
	{"cto", "cê tê ó"},
	{"splitter", "divisor óptico"},
	{"los", "perda de sinal"},
}

var (
	emphasisRe   = regexp.MustCompile(`[*_#]+`)
	listHyphenRe = regexp.MustCompile(`(?m)^(?:- )+`)
	allowedRe    = regexp.MustCompile(`[^a-z0-9àáâãäçèéêëìíîïñòóôõöùúûü\s.,;:!?()+%'"-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeForSpeech prepares a diagnosis text for the synthesis voice: strips
// markdown, lowercases, expands field jargon into spoken forms, drops anything
// outside the allowed character set and collapses whitespace. Total and
// idempotent; worst case is an empty string.
func SanitizeForSpeech(text string) string {
	s := emphasisRe.ReplaceAllString(text, "")
	s = listHyphenRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	// The filter can fabricate a jargon key by deleting a stray character
	// between its letters ("c@to" -> "cto"), and an expansion ending in "l"
	// followed by "os" forms a fresh "los". Substitution and filtering repeat
	// until the text stops changing, so the result holds no key at all.
	for {
		prev := s
		for _, r := range spokenReplacements {
			s = strings.ReplaceAll(s, r.from, r.to)
		}
		s = allowedRe.ReplaceAllString(s, "")
		if s == prev {
			break
		}
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	// Collapsing newlines can leave a former list hyphen at the front; a
	// leading "- " would be re-stripped on a second pass, so drop it here.
	for strings.HasPrefix(s, "- ") {
		s = strings.TrimSpace(s[2:])
	}
	return s
}
