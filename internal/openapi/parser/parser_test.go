package parser

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darim/imageform/pkg/forms"
	"github.com/darim/imageform/pkg/model"
	pkgopenapi "github.com/darim/imageform/pkg/openapi"
	"github.com/darim/imageform/pkg/testsupport"
)

type stubSource struct{}

func (stubSource) Kind() pkgopenapi.SourceKind { return pkgopenapi.SourceKindFS }
func (stubSource) Location() string            { return "inline" }

func inlineDocument(t *testing.T, raw []byte) pkgopenapi.Document {
	t.Helper()
	doc, err := pkgopenapi.NewDocument(stubSource{}, raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestForms_EmbeddedDocumentMatchesCatalog(t *testing.T) {
	raw, err := fs.ReadFile(pkgopenapi.EmbeddedFS(), pkgopenapi.ImageBuilderDocument)
	if err != nil {
		t.Fatalf("read embedded document: %v", err)
	}
	doc := inlineDocument(t, raw)

	derived, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), doc)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}

	catalog, err := forms.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	want := make(map[string]model.Form)
	for _, name := range catalog.Names() {
		form, _ := catalog.Form(name)
		want[name] = form
	}

	if diff := cmp.Diff(want, derived); diff != "" {
		t.Fatalf("derived forms differ from catalogue (-want +got):\n%s", diff)
	}
}

func TestForms_KindsAndNaming(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Uploads", "version": "1.0.0" },
  "paths": {
    "/gallery/upload": {
      "post": {
        "requestBody": {
          "content": {
            "multipart/form-data": {
              "schema": {
                "type": "object",
                "properties": {
                  "photos": { "type": "array", "items": { "type": "string", "format": "binary" } },
                  "tags": { "type": "array", "items": { "type": "string" } },
                  "cover": { "$ref": "#/components/schemas/Upload" },
                  "caption": { "type": "string" }
                }
              }
            }
          }
        },
        "responses": { "200": { "description": "ok" } }
      }
    },
    "/ping": {
      "post": {
        "operationId": "ping",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } },
        "responses": { "200": { "description": "ok" } }
      }
    }
  },
  "components": {
    "schemas": {
      "Upload": { "type": "string", "format": "binary" }
    }
  }
}`

	doc := inlineDocument(t, []byte(document))
	got, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), doc)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}

	want := map[string]model.Form{
		"gallery/upload": {
			Name:     "gallery/upload",
			Endpoint: "gallery/upload",
			Fields: model.FieldDescriptors{
				"photos":  model.FieldKindFiles,
				"tags":    model.FieldKindValue,
				"cover":   model.FieldKindFiles,
				"caption": model.FieldKindValue,
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestForms_TitlesAndLabelsArePlainText(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Uploads", "version": "1.0.0" },
  "paths": {
    "/blur": {
      "post": {
        "operationId": "blur",
        "summary": "<script>alert(1)</script>Blur <b>image</b>",
        "requestBody": {
          "content": {
            "multipart/form-data": {
              "schema": {
                "type": "object",
                "properties": {
                  "radius": { "type": "string", "description": "Radius <i>in px</i> &amp; sigma" },
                  "noise": { "type": "string", "description": "<img src=x onerror=alert(1)>" }
                }
              }
            }
          }
        },
        "responses": { "200": { "description": "ok" } }
      }
    }
  }
}`

	got, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), inlineDocument(t, []byte(document)))
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	blur := got["blur"]
	if blur.Title != "Blur image" {
		t.Fatalf("title = %q", blur.Title)
	}
	if diff := cmp.Diff(map[string]string{"radius": "Radius in px & sigma"}, blur.Labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestForms_EmptyDocuments(t *testing.T) {
	const document = `{"openapi":"3.0.0","info":{"title":"Empty","version":"1"},"paths":{}}`
	doc := inlineDocument(t, []byte(document))

	if _, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without multipart operations")
	}

	got, err := New(pkgopenapi.NewParserOptions(pkgopenapi.WithAllowEmpty(true))).Forms(context.Background(), doc)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no forms, got %v", got)
	}

	if _, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), pkgopenapi.Document{}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), inlineDocument(t, []byte("{not json"))); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestForms_Golden(t *testing.T) {
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "gallery.yaml"))

	got, err := New(pkgopenapi.NewParserOptions()).Forms(context.Background(), doc)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}

	goldenPath := filepath.Join("testdata", "gallery.golden.json")
	testsupport.WriteGolden(t, goldenPath, got)

	want := testsupport.MustLoadForms(t, goldenPath)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}
