// Package loader reads API descriptions for form derivation. A document is
// only handed on when it has at least one multipart POST operation.
package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgopenapi "github.com/darim/imageform/pkg/openapi"
)

const acceptHeader = "application/yaml, application/x-yaml;q=0.9, application/json;q=0.8, */*;q=0.1"

// Loader implements pkgopenapi.Loader over files, an fs.FS and HTTP.
type Loader struct {
	fs   fs.FS
	http *http.Client
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader. HTTP is enabled only when options carry a client or
// the fallback flag; RequestTimeout applies to the whole fetch including the
// body.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	l := &Loader{fs: options.FileSystem}
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		l.http = &clone
	case options.AllowHTTPFallback:
		l.http = &http.Client{Timeout: options.RequestTimeout}
	}
	return l
}

// Load reads src and returns it as a Document. Documents without a
// multipart POST operation fail with pkgopenapi.ErrNoMultipartOperations.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, pkgopenapi.ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	body, err := l.open(ctx, src)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s %s: %w", src.Kind(), src.Location(), err)
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(body, pkgopenapi.MaxDocumentBytes+1))
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: read %s: %w", src.Location(), err)
	}

	doc, err := pkgopenapi.NewDocument(src, data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %w", err)
	}
	paths, err := doc.MultipartPaths()
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %w", err)
	}
	if len(paths) == 0 {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s: %w", src.Location(), pkgopenapi.ErrNoMultipartOperations)
	}
	return doc, nil
}

func (l *Loader) open(ctx context.Context, src pkgopenapi.Source) (io.ReadCloser, error) {
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		return os.Open(src.Location())
	case pkgopenapi.SourceKindFS:
		if l.fs == nil {
			return nil, fmt.Errorf("%w: no filesystem configured", pkgopenapi.ErrUnsupportedSource)
		}
		return l.fs.Open(src.Location())
	case pkgopenapi.SourceKindURL:
		if l.http == nil {
			return nil, pkgopenapi.ErrHTTPDisabled
		}
		return l.get(ctx, src.Location())
	default:
		return nil, pkgopenapi.ErrUnsupportedSource
	}
}

func (l *Loader) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
