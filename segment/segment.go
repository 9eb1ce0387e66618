// Package segment splits text into sentences.
//
// Rules is a punctuation-based splitter tuned for Indonesian abbreviations.
// Neural runs a wtpsplit/SaT ONNX model and is used when a model is available.
package segment

import "context"

// Splitter splits text into sentences. Concatenating the returned sentences
// need not reproduce text exactly; whitespace between sentences may be dropped.
type Splitter interface {
	Split(ctx context.Context, text string) ([]string, error)
}

// Sentence is a sentence with its byte offsets in the source text.
type Sentence struct {
	Text  string
	Start int
	End   int
}
