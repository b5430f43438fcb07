package openapi_test

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darim/imageform"
	"github.com/darim/imageform/pkg/forms"
	"github.com/darim/imageform/pkg/model"
	pkgopenapi "github.com/darim/imageform/pkg/openapi"
)

func TestLoaderParserIntegration(t *testing.T) {
	ctx := context.Background()

	data, err := fs.ReadFile(pkgopenapi.EmbeddedFS(), pkgopenapi.ImageBuilderDocument)
	if err != nil {
		t.Fatalf("read embedded document: %v", err)
	}

	tmp := t.TempDir()
	filePath := filepath.Join(tmp, "imagebuilder.yaml")
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		t.Fatalf("write temp fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	builtin, err := forms.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	want := formsOf(builtin)

	cases := map[string]struct {
		source  pkgopenapi.Source
		options []pkgopenapi.LoaderOption
	}{
		"file": {source: pkgopenapi.SourceFromFile(filePath)},
		"fs": {
			source:  pkgopenapi.SourceFromFS(pkgopenapi.ImageBuilderDocument),
			options: []pkgopenapi.LoaderOption{pkgopenapi.WithFileSystem(pkgopenapi.EmbeddedFS())},
		},
		"http": {
			source:  pkgopenapi.SourceFromURL(server.URL),
			options: []pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(0)},
		},
	}

	parser := imageform.NewParser()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := imageform.NewLoader(tc.options...).Load(ctx, tc.source)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			got, err := parser.Forms(ctx, doc)
			if err != nil {
				t.Fatalf("forms: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("forms mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func formsOf(catalog *forms.Catalog) map[string]model.Form {
	out := make(map[string]model.Form, catalog.Len())
	for _, name := range catalog.Names() {
		form, _ := catalog.Form(name)
		out[name] = form
	}
	return out
}
