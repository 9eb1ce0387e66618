package tokenizer

import "math"

// EncodeIDs returns HuggingFace-compatible token ids for text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Encode(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// Encode returns the highest scoring segmentation of text (Viterbi over
// piece log probabilities). Characters no piece covers become <unk>.
func (t *Tokenizer) Encode(text string) []TokenInfo {
	norm := normalize(text)
	runes := norm.runes
	n := len(runes)
	if n == 0 {
		return nil
	}

	// best[i] is the best score for runes[:i]; from[i] is where the last
	// piece of that segmentation starts.
	best := make([]float64, n+1)
	from := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
		from[i] = -1
	}

	for i := 1; i <= n; i++ {
		for length := 1; length <= min(t.maxRunes, i); length++ {
			j := i - length
			score, ok := t.scores[string(runes[j:i])]
			if !ok {
				continue
			}
			if s := best[j] + float64(score); s > best[i] {
				best[i] = s
				from[i] = j
			}
		}

		if from[i] < 0 {
			best[i] = best[i-1] + float64(t.unkScore)
			from[i] = i - 1
		}
	}

	var tokens []TokenInfo
	for end := n; end > 0; end = from[end] {
		start := from[end]
		piece := string(runes[start:end])

		id := unkID
		if _, ok := t.scores[piece]; ok {
			id = hfID(t.index[piece])
		}

		tokens = append(tokens, TokenInfo{
			ID:    id,
			Text:  piece,
			Start: norm.start[start],
			End:   norm.end[end-1],
		})
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens
}
