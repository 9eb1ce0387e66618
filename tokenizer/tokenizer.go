// Package tokenizer implements XLM-RoBERTa compatible SentencePiece unigram
// tokenization with byte offsets into the source text.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// HuggingFace XLM-RoBERTa special token ids.
const (
	bosID int32 = 0 // <s>
	padID int32 = 1 // <pad>, absent from the SentencePiece model
	eosID int32 = 2 // </s>
	unkID int32 = 3 // <unk>
)

// Tokenizer encodes text with a SentencePiece unigram model.
//
// Ids are remapped from SentencePiece indices to the HuggingFace convention:
// SP[0] <unk> -> 3, SP[1] <s> -> 0, SP[2] </s> -> 2, SP[n] -> n+1 for n >= 3.
type Tokenizer struct {
	index    map[string]int32   // piece -> SentencePiece index
	scores   map[string]float32 // pieces eligible for matching
	size     int
	unkScore float32
	maxRunes int
}

// TokenInfo is one token with its byte range in the encoded text.
type TokenInfo struct {
	ID    int32
	Text  string
	Start int
	End   int
}

// New loads a tokenizer from a SentencePiece .model file.
func New(modelPath string) (*Tokenizer, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return FromModel(model)
}

// FromModel builds a tokenizer from a decoded model.
func FromModel(model *Model) (*Tokenizer, error) {
	if model.ModelType != ModelUnigram {
		return nil, fmt.Errorf("unsupported model type %d", model.ModelType)
	}

	t := &Tokenizer{
		index:  make(map[string]int32, len(model.Pieces)),
		scores: make(map[string]float32, len(model.Pieces)),
		size:   len(model.Pieces),
	}

	for i, p := range model.Pieces {
		idx, err := safecast.Conv[int32](i)
		if err != nil {
			return nil, fmt.Errorf("piece index %d: %w", i, err)
		}
		t.index[p.Piece] = idx

		switch p.Type {
		case PieceUnknown:
			t.unkScore = p.Score
			continue
		case PieceControl, PieceUnused:
			continue
		}
		t.scores[p.Piece] = p.Score
		t.maxRunes = max(t.maxRunes, utf8.RuneCountInString(p.Piece))
	}

	return t, nil
}

// hfID converts a SentencePiece index to a HuggingFace XLM-RoBERTa id.
func hfID(sp int32) int32 {
	switch sp {
	case 0:
		return unkID
	case 1:
		return bosID
	case 2:
		return eosID
	default:
		return sp + 1
	}
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the HuggingFace vocabulary size: the SentencePiece
// pieces plus the inserted <pad> and trailing <mask>.
func (t *Tokenizer) VocabSize() int {
	return t.size + 2
}

// BOSID returns the beginning-of-sentence token id.
func (t *Tokenizer) BOSID() int32 { return bosID }

// PadID returns the padding token id.
func (t *Tokenizer) PadID() int32 { return padID }

// EOSID returns the end-of-sentence token id.
func (t *Tokenizer) EOSID() int32 { return eosID }

// UnkID returns the unknown token id.
func (t *Tokenizer) UnkID() int32 { return unkID }
