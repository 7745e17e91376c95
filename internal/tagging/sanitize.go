package tagging

import (
	"strings"
	"unicode"
)

// maxTags caps the tag set persisted per item.
const maxTags = 10

// stopWords are filler tokens the text model tends to emit alongside real
// tags. They are never useful as searchable labels.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "with": {},
	"stands": {}, "out": {}, "against": {}, "its": {}, "their": {},
	"this": {}, "that": {}, "from": {}, "into": {}, "for": {},
	"are": {}, "was": {}, "were": {},
}

// SanitizeTags normalizes raw model output into the canonical tag set:
// lower-cased, punctuation stripped, stop words and digit-bearing tokens
// dropped, deduplicated in first-seen order, at most maxTags entries.
func SanitizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var tags []string
	for _, token := range raw {
		tag := cleanToken(token)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func cleanToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))

	var b strings.Builder
	hasDigit := false
	for _, r := range token {
		switch {
		case unicode.IsLetter(r), r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			hasDigit = true
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	tag := strings.TrimSpace(b.String())

	if hasDigit {
		return ""
	}
	if len(tag) <= 2 || len(tag) >= 30 {
		return ""
	}
	if _, stop := stopWords[tag]; stop {
		return ""
	}
	return tag
}
