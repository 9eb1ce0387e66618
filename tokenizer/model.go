package tokenizer

import (
	"fmt"
	"os"

	pb "github.com/jamesainslie/go-sacr/internal/proto"
)

// PieceType is the SentencePiece piece type.
type PieceType int32

// Piece types as numbered in sentencepiece_model.proto.
const (
	PieceNormal      PieceType = 1
	PieceUnknown     PieceType = 2
	PieceControl     PieceType = 3
	PieceUserDefined PieceType = 4
	PieceUnused      PieceType = 5
	PieceByte        PieceType = 6
)

// ModelType is the SentencePiece trainer model type.
type ModelType int32

// Model types as numbered in sentencepiece_model.proto.
const (
	ModelUnigram ModelType = 1
	ModelBPE     ModelType = 2
	ModelWord    ModelType = 3
	ModelChar    ModelType = 4
)

// Piece is one vocabulary entry.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// Model is the part of a SentencePiece model needed for encoding.
type Model struct {
	Pieces    []Piece
	ModelType ModelType
}

// LoadModel reads a SentencePiece .model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	m, err := DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("parsing protobuf: %w", err)
	}
	return m, nil
}

// DecodeModel decodes a serialized ModelProto. Only the pieces and the
// trainer model type are kept.
func DecodeModel(data []byte) (*Model, error) {
	msg, err := pb.UnmarshalModelProto(data)
	if err != nil {
		return nil, err
	}

	var (
		modelFields = pb.ModelProto.Fields()
		pieceFields = pb.SentencePiece.Fields()
		pieceText   = pieceFields.ByName("piece")
		pieceScore  = pieceFields.ByName("score")
		pieceType   = pieceFields.ByName("type")
	)

	pieces := msg.Get(modelFields.ByName("pieces")).List()
	if pieces.Len() == 0 {
		return nil, fmt.Errorf("model has no pieces")
	}

	m := &Model{
		Pieces:    make([]Piece, pieces.Len()),
		ModelType: ModelUnigram,
	}
	for i := range pieces.Len() {
		p := pieces.Get(i).Message()
		m.Pieces[i] = Piece{
			Piece: p.Get(pieceText).String(),
			Score: float32(p.Get(pieceScore).Float()),
			Type:  PieceType(p.Get(pieceType).Enum()),
		}
	}

	// Unset trainer_spec leaves the UNIGRAM default.
	if trainer := modelFields.ByName("trainer_spec"); msg.Has(trainer) {
		spec := msg.Get(trainer).Message()
		m.ModelType = ModelType(spec.Get(pb.TrainerSpec.Fields().ByName("model_type")).Enum())
	}
	return m, nil
}
