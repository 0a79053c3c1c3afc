package openapi

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Parser extracts operations from a document, keyed by operation id.
// Operations without an id are keyed "<method>:<path>" in lower-case method.
type Parser interface {
	Operations(ctx context.Context, doc Document) (map[string]Operation, error)
}

// ParserOptions toggles parser behaviour.
type ParserOptions struct {
	// Validate runs document validation before extraction. Defaults to true.
	Validate bool

	// AllowEmpty accepts documents without any operation.
	AllowEmpty bool

	Logger logrus.FieldLogger
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles document validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

// WithAllowEmpty accepts documents that declare no operations.
func WithAllowEmpty(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmpty = enabled
	}
}

// WithParserLogger sets the logger used to report skipped operations.
func WithParserLogger(logger logrus.FieldLogger) ParserOption {
	return func(opts *ParserOptions) {
		opts.Logger = logger
	}
}

// NewParserOptions applies options over the defaults.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{Validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
