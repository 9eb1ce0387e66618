package sacr

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jamesainslie/go-sacr/segment"
)

// Document is one annotated text with its mentions resolved.
type Document struct {
	// Raw is the annotated input.
	Raw string `json:"raw"`
	// Text is Raw with markup removed; mention offsets index into it.
	Text string `json:"text"`
	// Sentences are the sentences of Raw, markup included.
	Sentences []string  `json:"sentences"`
	Mentions  []Mention `json:"mentions"`
}

// Annotator parses documents and derives mention attributes.
// It is safe for concurrent use if its splitter and tagger are.
type Annotator struct {
	splitter segment.Splitter
	tagger   POSTagger
	logger   *slog.Logger
}

// New creates an Annotator.
func New(opts ...Option) *Annotator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Annotator{
		splitter: cfg.splitter,
		tagger:   cfg.tagger,
		logger:   cfg.logger,
	}
}

// Annotate parses raw, splits it into sentences and derives attributes for
// every mention. A parse error aborts with no partial document.
func (a *Annotator) Annotate(ctx context.Context, raw string) (*Document, error) {
	res, err := parse(raw)
	if err != nil {
		return nil, err
	}

	sentences, err := a.splitter.Split(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("splitting sentences: %w", err)
	}

	mentions := Derive(res.mentions, sentences, a.tagger)

	a.logger.Debug("annotated document",
		slog.Int("mentions", len(mentions)),
		slog.Int("sentences", len(sentences)),
		slog.Int("chars", len([]rune(res.plain))),
	)

	return &Document{
		Raw:       raw,
		Text:      res.plain,
		Sentences: sentences,
		Mentions:  mentions,
	}, nil
}

// Split splits text with the annotator's sentence splitter.
func (a *Annotator) Split(ctx context.Context, text string) ([]string, error) {
	return a.splitter.Split(ctx, text)
}

// Close releases the splitter's resources.
func (a *Annotator) Close() error {
	if c, ok := a.splitter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
