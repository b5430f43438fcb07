package openapi

import "errors"

var (
	// ErrNoSource is returned when a load is attempted without a Source.
	ErrNoSource = errors.New("openapi: source is required")
	// ErrUnsupportedSource is returned for a SourceKind no loader handles.
	ErrUnsupportedSource = errors.New("openapi: unsupported source kind")
	// ErrHTTPDisabled is returned for URL sources when the loader was built
	// without an HTTP client.
	ErrHTTPDisabled = errors.New("openapi: http loading is disabled")
	// ErrEmptyDocument is returned for blank payloads.
	ErrEmptyDocument = errors.New("openapi: document is empty")
	// ErrDocumentTooLarge is returned when a payload exceeds MaxDocumentBytes.
	ErrDocumentTooLarge = errors.New("openapi: document is too large")
	// ErrNoMultipartOperations is returned for documents that describe no
	// POST operation with a multipart/form-data body, so no form can come
	// from them.
	ErrNoMultipartOperations = errors.New("openapi: no multipart POST operations")
)
