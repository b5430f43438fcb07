package openapi

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxDocumentBytes bounds the size of an API description a loader accepts.
const MaxDocumentBytes = 4 << 20

// Source identifies where an API description came from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates where documents can be read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document is a raw API description, YAML or JSON, plus its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw into a Document. Blank payloads are rejected.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, ErrNoSource
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, src.Location())
	}
	if len(raw) > MaxDocumentBytes {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentTooLarge, src.Location())
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

type pathItemScan struct {
	Post *struct {
		RequestBody *struct {
			Ref     string                 `yaml:"$ref"`
			Content map[string]interface{} `yaml:"content"`
		} `yaml:"requestBody"`
	} `yaml:"post"`
}

type documentScan struct {
	Paths map[string]pathItemScan `yaml:"paths"`
}

// MultipartPaths lists, sorted, the paths whose POST operation takes a
// multipart/form-data body. It reads the document shallowly: a request body
// given as a $ref is counted, since only the parser resolves references.
func (d Document) MultipartPaths() ([]string, error) {
	var scan documentScan
	if err := yaml.Unmarshal(d.raw, &scan); err != nil {
		return nil, fmt.Errorf("openapi: scan %s: %w", d.Location(), err)
	}

	var paths []string
	for path, item := range scan.Paths {
		if item.Post == nil || item.Post.RequestBody == nil {
			continue
		}
		body := item.Post.RequestBody
		if body.Ref != "" {
			paths = append(paths, path)
			continue
		}
		for media := range body.Content {
			if strings.EqualFold(strings.TrimSpace(media), MultipartMediaType) {
				paths = append(paths, path)
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
