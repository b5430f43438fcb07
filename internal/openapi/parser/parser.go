package parser

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/microcosm-cc/bluemonday"

	"github.com/darim/imageform/pkg/model"
	pkgopenapi "github.com/darim/imageform/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Forms derives one form per POST operation with a multipart/form-data body.
func (p *Parser) Forms(ctx context.Context, doc pkgopenapi.Document) (map[string]model.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	api, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	forms := make(map[string]model.Form)
	if api.Paths != nil {
		for path, item := range api.Paths.Map() {
			if item == nil || item.Post == nil {
				continue
			}
			form, ok := formFromOperation(path, item.Post)
			if !ok {
				continue
			}
			if _, exists := forms[form.Name]; exists {
				return nil, fmt.Errorf("openapi parser: duplicate form %q", form.Name)
			}
			forms[form.Name] = form
		}
	}

	if len(forms) == 0 && !p.options.AllowEmpty {
		return nil, errors.New("openapi parser: no multipart operations found")
	}
	return forms, nil
}

func formFromOperation(path string, op *openapi3.Operation) (model.Form, bool) {
	schema := multipartSchema(op.RequestBody)
	if schema == nil {
		return model.Form{}, false
	}

	endpoint := strings.Trim(path, "/")
	name := strings.TrimSpace(op.OperationID)
	if name == "" {
		name = endpoint
	}
	if endpoint == "" || name == "" {
		return model.Form{}, false
	}

	form := model.Form{
		Name:     name,
		Title:    plainText(op.Summary),
		Endpoint: endpoint,
		Fields:   make(model.FieldDescriptors, len(schema.Properties)),
	}
	for id, prop := range schema.Properties {
		form.Fields[id] = fieldKind(prop)
		if prop != nil && prop.Value != nil {
			if label := plainText(prop.Value.Description); label != "" {
				if form.Labels == nil {
					form.Labels = make(map[string]string)
				}
				form.Labels[id] = label
			}
		}
	}
	return form, true
}

func multipartSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	media := body.Value.Content.Get(pkgopenapi.MultipartMediaType)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	return media.Schema.Value
}

// fieldKind maps binary strings and arrays of them to file inputs.
func fieldKind(ref *openapi3.SchemaRef) model.FieldKind {
	if ref == nil || ref.Value == nil {
		return model.FieldKindValue
	}
	schema := ref.Value
	if isBinary(schema) {
		return model.FieldKindFiles
	}
	if hasType(schema, openapi3.TypeArray) && schema.Items != nil && schema.Items.Value != nil && isBinary(schema.Items.Value) {
		return model.FieldKindFiles
	}
	return model.FieldKindValue
}

func isBinary(schema *openapi3.Schema) bool {
	return hasType(schema, openapi3.TypeString) && schema.Format == "binary"
}

func hasType(schema *openapi3.Schema, want string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, t := range schema.Type.Slice() {
		if t == want {
			return true
		}
	}
	return false
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plainText strips markup from document-supplied titles and labels; they are
// shown in terminal prompts and rendered into pages.
func plainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}
