package openapi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentMultipartPaths(t *testing.T) {
	const raw = `{
  "openapi": "3.0.0",
  "info": {"title": "Uploads", "version": "1"},
  "paths": {
    "/watermark": {"post": {"requestBody": {"$ref": "#/components/requestBodies/Upload"}}},
    "/blur": {"post": {"requestBody": {"content": {"Multipart/Form-Data": {}}}}},
    "/meta": {"post": {"requestBody": {"content": {"application/json": {}}}}},
    "/list": {"get": {}}
  }
}`
	doc, err := NewDocument(SourceFromFS("inline.json"), []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	got, err := doc.MultipartPaths()
	if err != nil {
		t.Fatalf("multipart paths: %v", err)
	}
	if diff := cmp.Diff([]string{"/blur", "/watermark"}, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDocumentErrors(t *testing.T) {
	if _, err := NewDocument(nil, []byte("openapi: 3.0.0")); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if _, err := NewDocument(SourceFromFile("api.yaml"), []byte(" \n")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}

	doc, err := NewDocument(SourceFromFile("api.yaml"), []byte("paths: [unclosed"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if _, err := doc.MultipartPaths(); err == nil {
		t.Fatalf("expected scan error for malformed document")
	}
}
