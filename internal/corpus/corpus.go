// Package corpus loads SACR-annotated files and annotates them in batches.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrEmptyDocument is returned when a file has a header but no body.
var ErrEmptyDocument = errors.New("corpus: empty document")

// Extensions lists the file extensions LoadCorpus picks up.
var Extensions = []string{".sacr", ".txt"}

// Header holds the "#key:value" lines that open a SACR file.
type Header struct {
	// Fields keeps the header lines in file order. Keys are as written.
	Fields []Field
}

// Field is one header line.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get returns the value of the first field whose key matches name
// case-insensitively.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h.Fields {
		if strings.EqualFold(f.Key, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Title returns the "title" field, or "" if absent.
func (h Header) Title() string {
	v, _ := h.Get("title")
	return v
}

// ParseHeader splits text into its leading header lines and the body.
// Header lines start with '#' and hold "key:value"; blank lines between them
// are skipped. The first other line starts the body, which is returned with
// surrounding whitespace trimmed.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	rest := text

	for rest != "" {
		line, next, _ := strings.Cut(rest, "\n")
		line = strings.TrimRight(line, "\r")

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				rest = next
				continue
			}
			break
		}

		key, value, ok := strings.Cut(strings.TrimPrefix(line, "#"), ":")
		if !ok {
			return Header{}, "", fmt.Errorf("header line %q: missing ':'", line)
		}
		h.Fields = append(h.Fields, Field{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
		rest = next
	}

	return h, strings.TrimSpace(rest), nil
}

// File is one loaded, not yet annotated, corpus file.
type File struct {
	ID     string // filename without extension
	Path   string
	Header Header
	Body   string
}

// LoadFile reads and splits one corpus file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	header, body, err := ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	if body == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	base := filepath.Base(path)
	return &File{
		ID:     strings.TrimSuffix(base, filepath.Ext(base)),
		Path:   path,
		Header: header,
		Body:   body,
	}, nil
}

// LoadCorpus loads every corpus file directly inside dir, sorted by name.
func LoadCorpus(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []*File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !slices.Contains(Extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}

		f, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		files = append(files, f)
	}

	return files, nil
}
