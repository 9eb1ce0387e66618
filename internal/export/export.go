// Package export writes annotated documents as record streams.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"

	sacr "github.com/jamesainslie/go-sacr"
	"github.com/jamesainslie/go-sacr/schema"
)

var (
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("export: unknown format")
	// ErrUnknownShape is returned for an unsupported record shape.
	ErrUnknownShape = errors.New("export: unknown shape")
)

// Format is an output encoding.
type Format string

const (
	JSONL   Format = "jsonl"
	MsgPack Format = "msgpack"
	// Proto writes varint length-delimited google.protobuf.Struct messages.
	Proto Format = "proto"
)

// Formats lists the supported formats.
var Formats = []Format{JSONL, MsgPack, Proto}

// ParseFormat maps a name to a Format.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Shape selects which records a document becomes.
type Shape string

const (
	// KB writes one schema.KBExample per document.
	KB Shape = "kb"
	// Rows writes one schema.Row per mention.
	Rows Shape = "rows"
)

// ParseShape maps a name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch s := Shape(strings.ToLower(name)); s {
	case KB, Rows:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Writer encodes records to an underlying stream. Writers buffer; call
// Flush when done.
type Writer interface {
	Write(record any) error
	Flush() error
}

// NewWriter returns a Writer for format f.
func NewWriter(f Format, w io.Writer) (Writer, error) {
	bw := bufio.NewWriter(w)
	switch f {
	case JSONL:
		return &jsonWriter{buf: bw, enc: json.NewEncoder(bw)}, nil
	case MsgPack:
		enc := msgpack.NewEncoder(bw)
		enc.SetCustomStructTag("json")
		return &msgpackWriter{buf: bw, enc: enc}, nil
	case Proto:
		return &protoWriter{buf: bw}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteDocument writes doc in the given shape.
func WriteDocument(w Writer, shape Shape, id string, doc *sacr.Document) error {
	switch shape {
	case KB:
		return w.Write(schema.KB(id, doc))
	case Rows:
		for _, row := range schema.Rows(id, doc) {
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownShape, shape)
}

type jsonWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func (w *jsonWriter) Write(record any) error {
	if err := w.enc.Encode(record); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (w *jsonWriter) Flush() error { return w.buf.Flush() }

type msgpackWriter struct {
	buf *bufio.Writer
	enc *msgpack.Encoder
}

func (w *msgpackWriter) Write(record any) error {
	if err := w.enc.Encode(record); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}

func (w *msgpackWriter) Flush() error { return w.buf.Flush() }

type protoWriter struct {
	buf *bufio.Writer
}

func (w *protoWriter) Write(record any) error {
	st, err := toStruct(record)
	if err != nil {
		return err
	}
	if _, err := protodelim.MarshalTo(w.buf, st); err != nil {
		return fmt.Errorf("encode proto: %w", err)
	}
	return nil
}

func (w *protoWriter) Flush() error { return w.buf.Flush() }

// toStruct converts a record to a Struct through its JSON form so field
// names match the other formats.
func toStruct(record any) (*structpb.Struct, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return st, nil
}
