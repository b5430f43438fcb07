// Package imageform submits image-processing forms to the image builder API
// and renders the browser page that does the same.
//
// Typical use:
//
//	catalog, _ := imageform.LoadCatalog(ctx, imageform.CatalogOptions{})
//	form, _ := catalog.Lookup("resize")
//	c, _ := imageform.NewClient(endpoint.Default().Resolve("www.darim.me"))
//	sub, _ := c.AttachForm(form)
//	outcome, err := sub.Submit(ctx, payload.PathSource{...})
package imageform

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/darim/imageform/pkg/client"
	"github.com/darim/imageform/pkg/forms"
	"github.com/darim/imageform/pkg/model"
	pkgopenapi "github.com/darim/imageform/pkg/openapi"
)

// Form aliases model.Form for callers that only import the root package.
type Form = model.Form

// FieldDescriptors aliases model.FieldDescriptors.
type FieldDescriptors = model.FieldDescriptors

// Outcome aliases client.Outcome.
type Outcome = client.Outcome

// NewClient exposes the client constructor from the top-level module.
func NewClient(apiURL string, options ...client.Option) (*client.Client, error) {
	return client.New(apiURL, options...)
}

// FormsFromOpenAPI loads source and derives one form per multipart POST
// operation.
func FormsFromOpenAPI(ctx context.Context, source pkgopenapi.Source, options ...pkgopenapi.LoaderOption) (*forms.Catalog, error) {
	doc, err := NewLoader(options...).Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return FormsFromDocument(ctx, doc)
}

// FormsFromDocument derives forms from a pre-loaded document, bypassing the
// loader stage.
func FormsFromDocument(ctx context.Context, doc pkgopenapi.Document) (*forms.Catalog, error) {
	derived, err := NewParser().Forms(ctx, doc)
	if err != nil {
		return nil, err
	}
	list := make([]model.Form, 0, len(derived))
	for _, form := range derived {
		list = append(list, form)
	}
	return forms.New(list...)
}

// CatalogOptions selects the catalogue layers merged over the built-in forms.
type CatalogOptions struct {
	// Dir holds extra catalogue files.
	Dir string
	// OpenAPI is a file path or http(s) URL of an API description.
	OpenAPI string
	// HTTPClient fetches remote OpenAPI documents. Remote sources are
	// refused when nil.
	HTTPClient *http.Client
}

// LoadCatalog returns the built-in forms overlaid with Dir and then OpenAPI.
// Later layers replace forms with the same name.
func LoadCatalog(ctx context.Context, opts CatalogOptions) (*forms.Catalog, error) {
	catalog, err := forms.Builtin()
	if err != nil {
		return nil, err
	}

	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		extra, err := forms.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("imageform: catalogue %s: %w", dir, err)
		}
		catalog = catalog.Merge(extra)
	}

	if raw := strings.TrimSpace(opts.OpenAPI); raw != "" {
		source, err := pkgopenapi.ParseSource(raw)
		if err != nil {
			return nil, err
		}
		var loaderOpts []pkgopenapi.LoaderOption
		if opts.HTTPClient != nil {
			loaderOpts = append(loaderOpts, pkgopenapi.WithHTTPClient(opts.HTTPClient))
		}
		derived, err := FormsFromOpenAPI(ctx, source, loaderOpts...)
		if err != nil {
			return nil, fmt.Errorf("imageform: openapi %s: %w", raw, err)
		}
		catalog = catalog.Merge(derived)
	}
	return catalog, nil
}
