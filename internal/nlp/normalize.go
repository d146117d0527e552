package nlp

import (
	"regexp"
	"strings"
)

var (
	urlExpr        = regexp.MustCompile(`https?://\S+`)
	mentionExpr    = regexp.MustCompile(`@\w+`)
	hashtagExpr    = regexp.MustCompile(`#(\w+)`)
	nonWordExpr    = regexp.MustCompile(`[^\p{L}\p{N}_\s']`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// Normalize prepares raw tweet text for NLP: URLs and @-mentions removed,
// hashtag markers stripped while keeping the word, punctuation dropped
// except apostrophes, whitespace collapsed, lowercased. It is total and
// idempotent; the empty string is a valid result.
func Normalize(raw string) string {
	text := urlExpr.ReplaceAllString(raw, "")
	text = mentionExpr.ReplaceAllString(text, "")
	text = hashtagExpr.ReplaceAllString(text, "$1")
	text = nonWordExpr.ReplaceAllString(text, " ")
	text = whitespaceExpr.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}
