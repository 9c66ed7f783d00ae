package zotero

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ShortTitleWords is the number of title words used in cite keys.
const ShortTitleWords = 3

var nonWord = regexp.MustCompile(`[^ \p{L}\p{N}_+]`)

// GenerateCiteKey builds a key in the [auth:lower][shorttitle3_3][year] format:
// the first token of the authors lowercased, the first three title words
// title-cased without separators, then the year.
func GenerateCiteKey(item *Item) string {
	author := ""
	if tokens := strings.Fields(strings.ToLower(item.Authors())); len(tokens) > 0 {
		author = tokens[0]
	}
	return author + ShortTitle(item.Title(), ShortTitleWords) + item.Year()
}

// ShortTitle strips punctuation from title and joins its first n words
// title-cased.
func ShortTitle(title string, n int) string {
	words := strings.Fields(nonWord.ReplaceAllString(title, ""))
	if len(words) > n {
		words = words[:n]
	}
	caser := cases.Title(language.Und)
	return strings.ReplaceAll(caser.String(strings.Join(words, " ")), " ", "")
}
