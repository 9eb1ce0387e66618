// Package proto provides the SentencePiece model schema. The descriptor set
// is compiled from sentencepiece_model.proto by `stave proto:generate` and
// embedded; messages are decoded with dynamicpb.
package proto

import (
	_ "embed"
	"fmt"

	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

//go:embed sentencepiece_model.binpb
var rawDesc []byte

// Message descriptors of sentencepiece_model.proto.
var (
	ModelProto     protoreflect.MessageDescriptor
	SentencePiece  protoreflect.MessageDescriptor
	TrainerSpec    protoreflect.MessageDescriptor
	NormalizerSpec protoreflect.MessageDescriptor
)

func init() {
	fd, err := loadFile(rawDesc)
	if err != nil {
		panic(fmt.Sprintf("sentencepiece_model.binpb: %v", err))
	}

	msgs := fd.Messages()
	ModelProto = msgs.ByName("ModelProto")
	TrainerSpec = msgs.ByName("TrainerSpec")
	NormalizerSpec = msgs.ByName("NormalizerSpec")
	if ModelProto != nil {
		SentencePiece = ModelProto.Messages().ByName("SentencePiece")
	}
	if ModelProto == nil || TrainerSpec == nil || NormalizerSpec == nil || SentencePiece == nil {
		panic("sentencepiece_model.binpb: missing message")
	}
}

func loadFile(raw []byte) (protoreflect.FileDescriptor, error) {
	var set descriptorpb.FileDescriptorSet
	if err := gproto.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decoding descriptor set: %w", err)
	}
	if n := len(set.GetFile()); n != 1 {
		return nil, fmt.Errorf("descriptor set has %d files, want 1", n)
	}
	return protodesc.NewFile(set.GetFile()[0], nil)
}

// NewModelProto returns an empty ModelProto message.
func NewModelProto() *dynamicpb.Message {
	return dynamicpb.NewMessage(ModelProto)
}

// UnmarshalModelProto parses a serialized ModelProto, such as the contents
// of a SentencePiece .model file.
func UnmarshalModelProto(data []byte) (*dynamicpb.Message, error) {
	m := NewModelProto()
	if err := gproto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
