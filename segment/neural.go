package segment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/jamesainslie/go-sacr/inference"
	"github.com/jamesainslie/go-sacr/tokenizer"
)

const (
	// maxSeqLen is the longest token window fed to the model. SaT models
	// accept 514 positions.
	maxSeqLen = 512

	// chunkOverlap is the number of tokens shared by consecutive windows.
	chunkOverlap = 64
)

// Neural splits sentences with a wtpsplit/SaT ONNX model.
// It is safe for concurrent use.
type Neural struct {
	tokenizer *tokenizer.Tokenizer
	pool      *inference.Pool
	threshold float32
	logger    *slog.Logger
}

// NewNeural loads the SaT model and its SentencePiece tokenizer.
func NewNeural(modelPath, tokenizerPath string, opts ...Option) (*Neural, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Check model file exists
	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	// Load tokenizer
	tok, err := tokenizer.New(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenizerFailed, err)
	}

	// Create session pool
	pool, err := inference.NewPool(cfg.poolSize, func() (*inference.Session, error) {
		return inference.NewSession(modelPath)
	})
	if err != nil {
		_ = tok.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	cfg.logger.Debug("loaded sentence model",
		slog.String("model", modelPath),
		slog.Int("vocab", tok.VocabSize()),
		slog.Int("pool", pool.Size()),
	)

	return &Neural{
		tokenizer: tok,
		pool:      pool,
		threshold: cfg.threshold,
		logger:    cfg.logger,
	}, nil
}

// Split implements Splitter.
func (n *Neural) Split(ctx context.Context, text string) ([]string, error) {
	ends, err := n.Boundaries(ctx, text)
	if err != nil {
		return nil, err
	}
	return cut(text, ends), nil
}

// Boundaries returns the byte offsets at which sentences end. The last
// boundary is always len(text) for non-blank text.
func (n *Neural) Boundaries(ctx context.Context, text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	// Tokenize
	tokens := n.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	// Get logits for all tokens, chunking if needed
	logits, err := n.logits(ctx, tokens)
	if err != nil {
		return nil, err
	}

	// Find boundaries using token byte offsets
	var ends []int
	last := 0
	for i, logit := range logits {
		if sigmoid(logit) <= n.threshold {
			continue
		}
		if end := tokens[i].End; end > last && end <= len(text) {
			ends = append(ends, end)
			last = end
		}
	}
	// Trailing text without a boundary is the last sentence
	if last < len(text) {
		ends = append(ends, len(text))
	}
	return ends, nil
}

// cut slices text at the given ends, trimming whitespace and dropping
// empty pieces.
func cut(text string, ends []int) []string {
	var out []string
	start := 0
	for _, end := range ends {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = end
	}
	return out
}

// logits runs the model over tokens in overlapping windows and averages
// the logits where windows overlap.
func (n *Neural) logits(ctx context.Context, tokens []tokenizer.TokenInfo) ([]float32, error) {
	// Acquire session from pool
	session, err := n.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer n.pool.Release(session)

	sum := make([]float32, len(tokens))
	count := make([]int, len(tokens))

	for start := 0; start < len(tokens); start += maxSeqLen - chunkOverlap {
		end := min(start+maxSeqLen, len(tokens))

		out, err := infer(ctx, session, tokens[start:end])
		if err != nil {
			return nil, err
		}
		// Accumulate logits for averaging in overlap regions
		for i, l := range out {
			sum[start+i] += l
			count[start+i]++
		}

		// Stop once the window reaches the end
		if end == len(tokens) {
			break
		}
	}

	// Average logits in overlapping regions
	for i := range sum {
		if count[i] > 1 {
			sum[i] /= float32(count[i])
		}
	}
	return sum, nil
}

func infer(ctx context.Context, session *inference.Session, tokens []tokenizer.TokenInfo) ([]float32, error) {
	ids := make([]int64, len(tokens))
	mask := make([]int64, len(tokens))
	for i, t := range tokens {
		ids[i] = int64(t.ID)
		mask[i] = 1
	}
	return session.Infer(ctx, ids, mask)
}

// Close releases the session pool and tokenizer.
func (n *Neural) Close() error {
	var errs []error
	if n.pool != nil {
		if err := n.pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if n.tokenizer != nil {
		if err := n.tokenizer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}

var _ Splitter = (*Neural)(nil)
