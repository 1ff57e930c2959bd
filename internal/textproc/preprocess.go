// Package textproc normalizes raw post and comment text before scoring.
package textproc

import (
	"regexp"
	"strings"
)

// space is whitespace in the Unicode sense: RE2's \s plus \v and the
// separator category (no-break space, em space and so on).
const space = `\s\v\p{Z}`

var (
	// A URL runs until the next whitespace rune of any kind.
	urlPattern = regexp.MustCompile(`(?:https?|www)[^` + space + `]+`)

	// Word characters are Unicode letters, digits, marks and underscore, so
	// non-Latin text survives while emoji and apostrophes are dropped.
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_` + space + `]`)
)

// Preprocess strips URLs and punctuation and lowercases text.
//
// A single pass can expose a new URL prefix ("h.ttpfoo" becomes "httpfoo"),
// so passes repeat until the output is stable. Every extra pass only removes
// URL runs, which shortens the text, so the loop terminates.
func Preprocess(text string) string {
	out := pass(text)
	for {
		next := pass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func pass(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.ToLower(text)
}
