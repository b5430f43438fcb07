package openapi

import (
	"context"

	"github.com/darim/imageform/pkg/model"
)

// MultipartMediaType is the request body media type forms are derived from.
const MultipartMediaType = "multipart/form-data"

// Parser turns a Document into submission forms, one per POST operation
// that accepts a multipart body. Forms are keyed by operationId.
type Parser interface {
	Forms(ctx context.Context, doc Document) (map[string]model.Form, error)
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// ResolveReferences validates the document and resolves $ref pointers
	// before walking operations.
	ResolveReferences bool

	// AllowEmpty accepts documents without any multipart operation.
	AllowEmpty bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithAllowEmpty toggles acceptance of documents that yield no forms.
func WithAllowEmpty(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmpty = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ResolveReferences: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
