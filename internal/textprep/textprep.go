package textprep

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// MaxClassifierRunes caps how much text reaches a model. Longer input is
// truncated, not rejected.
const MaxClassifierRunes = 512

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// RemoveLinks strips markdown links (keeping their text) and bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	input = bareURLPattern.ReplaceAllString(input, "")

	return input
}

// Flatten renders markdown to plain text and collapses whitespace. User
// uploads are frequently copied out of chats and posts, so this runs before
// every classification.
func Flatten(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := htmlTagPattern.ReplaceAllString(string(output), " ")
	plain = strings.Join(strings.Fields(plain), " ")

	return RemoveLinks(plain)
}

// Truncate cuts text to MaxClassifierRunes runes. Rune-based so multibyte
// Devanagari and Telugu script never gets split mid-character.
func Truncate(input string) string {
	runes := []rune(input)
	if len(runes) <= MaxClassifierRunes {
		return input
	}
	return string(runes[:MaxClassifierRunes])
}

// ForClassifier is the full preparation chain: flatten, trim, truncate.
// Empty output means the input had no classifiable content.
func ForClassifier(input string) string {
	return Truncate(strings.TrimSpace(Flatten(input)))
}
