package sacr

import (
	"log/slog"

	"github.com/jamesainslie/go-sacr/segment"
)

// Option configures an Annotator.
type Option func(*config)

type config struct {
	splitter segment.Splitter
	tagger   POSTagger
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{
		splitter: segment.NewRules(),
		tagger:   noTagger{},
		logger:   slog.Default(),
	}
}

// WithSplitter sets the sentence splitter (default: segment.NewRules()).
// The Annotator takes ownership: Close closes s if it is an io.Closer.
func WithSplitter(s segment.Splitter) Option {
	return func(c *config) {
		if s != nil {
			c.splitter = s
		}
	}
}

// WithTagger sets the part-of-speech tagger used for the Proper attribute.
func WithTagger(t POSTagger) Option {
	return func(c *config) {
		if t != nil {
			c.tagger = t
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
