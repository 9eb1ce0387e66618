package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

const sentencePieceSpace = '▁' // U+2581 LOWER ONE EIGHTH BLOCK

// normalized is text in SentencePiece form together with, for each rune,
// the byte range it came from in the source.
type normalized struct {
	runes []rune
	start []int
	end   []int
}

// normalize applies the XLM-RoBERTa conventions: a dummy ▁ prefix, every
// whitespace run collapsed to one ▁, trailing whitespace dropped. An inserted
// ▁ maps to an empty range at the start of the word it precedes.
func normalize(text string) normalized {
	var n normalized
	pending := true

	for i, r := range text {
		if unicode.IsSpace(r) {
			if len(n.runes) > 0 {
				pending = true
			}
			continue
		}
		if pending {
			n.push(sentencePieceSpace, i, i)
			pending = false
		}
		n.push(r, i, i+utf8.RuneLen(r))
	}
	return n
}

func (n *normalized) push(r rune, start, end int) {
	n.runes = append(n.runes, r)
	n.start = append(n.start, start)
	n.end = append(n.end, end)
}

func (n normalized) String() string {
	return string(n.runes)
}
