package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/darim/imageform/pkg/openapi"
)

const uploadDoc = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /jpeg:
    post:
      requestBody:
        content:
          multipart/form-data:
            schema: {type: object}
      responses: {"200": {description: ok}}
  /status:
    get:
      responses: {"200": {description: ok}}
`

const jsonOnlyDoc = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /ping:
    post:
      requestBody:
        content:
          application/json:
            schema: {type: object}
      responses: {"200": {description: ok}}
`

func TestLoad_FileFSAndEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(uploadDoc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fstest.MapFS{
		"api.yaml": {Data: []byte(uploadDoc)},
	})))

	for _, src := range []pkgopenapi.Source{
		pkgopenapi.SourceFromFile(path),
		pkgopenapi.SourceFromFS("api.yaml"),
	} {
		doc, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("load %s: %v", src.Kind(), err)
		}
		if string(doc.Raw()) != uploadDoc || doc.Location() != src.Location() {
			t.Fatalf("unexpected document from %s", src.Kind())
		}
	}

	embedded := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(pkgopenapi.EmbeddedFS())))
	doc, err := embedded.Load(context.Background(), pkgopenapi.SourceFromFS(pkgopenapi.ImageBuilderDocument))
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	paths, err := doc.MultipartPaths()
	if err != nil {
		t.Fatalf("multipart paths: %v", err)
	}
	if diff := cmp.Diff([]string{"/compose", "/jpeg", "/resize"}, paths); diff != "" {
		t.Fatalf("embedded paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_RefusesDocumentsWithoutUploads(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fstest.MapFS{
		"json.yaml":  {Data: []byte(jsonOnlyDoc)},
		"empty.yaml": {Data: []byte("openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n")},
		"blank.yaml": {Data: []byte("\n  \n")},
		"huge.yaml":  {Data: bytes.Repeat([]byte("#"), pkgopenapi.MaxDocumentBytes+1)},
	})))

	cases := map[string]error{
		"json.yaml":  pkgopenapi.ErrNoMultipartOperations,
		"empty.yaml": pkgopenapi.ErrNoMultipartOperations,
		"blank.yaml": pkgopenapi.ErrEmptyDocument,
		"huge.yaml":  pkgopenapi.ErrDocumentTooLarge,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := l.Load(context.Background(), pkgopenapi.SourceFromFS(name))
			if !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
			if !strings.Contains(err.Error(), name) {
				t.Fatalf("error should name the document: %v", err)
			}
		})
	}
}

func TestLoad_HTTPRequiresOptIn(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		accept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(uploadDoc))
	}))
	defer srv.Close()

	src := pkgopenapi.SourceFromURL(srv.URL + "/openapi.yaml")

	offline := New(pkgopenapi.NewLoaderOptions())
	if _, err := offline.Load(context.Background(), src); !errors.Is(err, pkgopenapi.ErrHTTPDisabled) {
		t.Fatalf("expected ErrHTTPDisabled, got %v", err)
	}

	online := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(srv.Client())))
	doc, err := online.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != uploadDoc {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if !strings.HasPrefix(accept, "application/yaml") {
		t.Fatalf("accept header = %q", accept)
	}

	missing := pkgopenapi.SourceFromURL(srv.URL + "/missing.yaml")
	if _, err := online.Load(context.Background(), missing); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())
	if _, err := l.Load(context.Background(), nil); !errors.Is(err, pkgopenapi.ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("api.yaml")); !errors.Is(err, pkgopenapi.ErrUnsupportedSource) {
		t.Fatalf("expected missing filesystem error, got %v", err)
	}
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFile(filepath.Join(t.TempDir(), "nope.yaml"))); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFile("api.yaml")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
