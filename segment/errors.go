package segment

import "errors"

// Sentinel errors returned by NewNeural.
var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("segment: model file not found")

	// ErrInvalidModel indicates the model file exists but cannot be loaded.
	ErrInvalidModel = errors.New("segment: invalid model format")

	// ErrTokenizerFailed indicates tokenizer initialization failed.
	ErrTokenizerFailed = errors.New("segment: tokenizer initialization failed")
)
