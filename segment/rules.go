package segment

import (
	"context"
	"regexp"
	"strings"
)

// abbreviations are Indonesian abbreviations whose period does not end a
// sentence. Matched case-insensitively against the word before the period.
var abbreviations = regexp.MustCompile(`(?i)(^|[\s{("'])(dr|drs|dra|ir|prof|no|hlm|dll|dsb|dst|tsb|yth|sdr|sdri|jl|kab|kec|kel|bpk|ny|st|tn|m|h|hj|s\.h|s\.e|s\.pd|a\.n|u\.p)\.$`)

// Rules splits at '.', '?' and '!' when followed by whitespace or end of
// text, skipping known abbreviations. Closing brackets and quotes directly
// after the punctuation stay with the sentence.
type Rules struct{}

// NewRules returns a rule-based splitter.
func NewRules() *Rules {
	return &Rules{}
}

// Split implements Splitter.
func (r *Rules) Split(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spans := r.Spans(text)
	if spans == nil {
		return nil, nil
	}
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text
	}
	return out, nil
}

// Spans returns sentences with their byte offsets. Text is trimmed of
// surrounding whitespace; Start and End delimit the untrimmed span.
func (r *Rules) Spans(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sentences []Sentence
	start := 0

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '?' && ch != '!' {
			continue
		}

		end := i + 1
		for end < len(text) && isCloser(text[end]) {
			end++
		}
		if end < len(text) && !isSpace(text[end]) {
			continue
		}

		if ch == '.' && abbreviations.MatchString(text[start:i+1]) {
			continue
		}

		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, Sentence{Text: s, Start: start, End: end})
		}

		for end < len(text) && isSpace(text[end]) {
			end++
		}
		start = end
		i = end - 1
	}

	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			sentences = append(sentences, Sentence{Text: s, Start: start, End: len(text)})
		}
	}

	return sentences
}

func isCloser(b byte) bool {
	return b == '}' || b == ')' || b == '"' || b == '\''
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

var _ Splitter = (*Rules)(nil)
