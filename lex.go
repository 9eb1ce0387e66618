package sacr

import "regexp"

const (
	openMarker  = "{"
	closeMarker = "}"
	labelSep    = ":"
	valueSep    = "="
)

// delimiters matches the four structural characters of the SACR markup.
var delimiters = regexp.MustCompile(`[{}:=]`)

// classValue matches the token following `=` in an open marker: a quoted
// class, at most one separating space, then the span's leading text.
var classValue = regexp.MustCompile(`(?s)^"([^"]*)" ?(.*)$`)

// splitTokens splits text on the structural delimiters, keeping each
// delimiter as its own token. Empty tokens are produced between adjacent
// delimiters and at either end, so an open marker always occupies exactly
// six consecutive tokens.
func splitTokens(text string) []string {
	locs := delimiters.FindAllStringIndex(text, -1)
	tokens := make([]string, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		tokens = append(tokens, text[prev:loc[0]], text[loc[0]:loc[1]])
		prev = loc[1]
	}
	return append(tokens, text[prev:])
}
