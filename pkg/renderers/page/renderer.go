// Package page renders a self-contained HTML document that submits a form to
// the image API from the browser.
package page

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/darim/imageform/pkg/client"
	"github.com/darim/imageform/pkg/endpoint"
	"github.com/darim/imageform/pkg/model"
	"github.com/darim/imageform/pkg/ui"
)

// TemplateName is the entry template looked up in the template bundle.
const TemplateName = "page.html"

// StylesheetAsset is the theme asset key linked as the page stylesheet.
const StylesheetAsset = "page.stylesheet"

// ErrEmptyAPIURL is returned when Render is called without an API URL.
var ErrEmptyAPIURL = errors.New("page renderer: api url is empty")

type Option func(*config)

type config struct {
	templateFS  fs.FS
	manifest    *theme.Manifest
	variant     string
	messages    client.Messages
	placeholder string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTheme applies a go-theme manifest. Tokens become CSS custom properties
// and the variant's tokens override the base ones.
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(cfg *config) {
		cfg.manifest = manifest
		cfg.variant = strings.TrimSpace(variant)
	}
}

// WithMessages overrides the alert texts embedded in the page script.
func WithMessages(messages client.Messages) Option {
	return func(cfg *config) {
		cfg.messages = messages
	}
}

// WithPlaceholder overrides the in-flight placeholder image path.
func WithPlaceholder(src string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			cfg.placeholder = trimmed
		}
	}
}

type Renderer struct {
	set         *pongo2.TemplateSet
	cssVars     map[string]string
	stylesheet  string
	messages    client.Messages
	placeholder string
}

// New constructs the page renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		messages:    client.DefaultMessages(),
		placeholder: ui.DefaultPlaceholder,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	r := &Renderer{
		set:         pongo2.NewSet("imageform-page", pongo2.NewFSLoader(cfg.templateFS)),
		messages:    cfg.messages.Resolve(),
		placeholder: cfg.placeholder,
	}
	if cfg.manifest != nil {
		tokens, assets, prefix := mergeVariant(cfg.manifest, cfg.variant)
		r.cssVars = cssVarsFromTokens(tokens)
		if file := strings.TrimSpace(assets[StylesheetAsset]); file != "" {
			r.stylesheet = joinAsset(prefix, file)
		}
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "page"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML page for form, posting to apiURL.
func (r *Renderer) Render(ctx context.Context, form model.Form, apiURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		return nil, ErrEmptyAPIURL
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("page renderer: %w", err)
	}
	action, err := endpoint.Join(apiURL, form.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("page renderer: %w", err)
	}

	tmpl, err := r.set.FromFile(TemplateName)
	if err != nil {
		return nil, fmt.Errorf("page renderer: load template: %w", err)
	}

	endpointPath := strings.Trim(form.Endpoint, "/")
	script := map[string]any{
		"action_json":      action,
		"fields_json":      form.Fields,
		"placeholder_json": r.placeholder,
		"messages_json": map[string]string{
			"generic":     r.messages.Generic,
			"throttled":   r.messages.Throttled,
			"serverError": r.messages.ServerErrorFormat,
		},
	}

	data := pongo2.Context{
		"title":      form.DisplayTitle(),
		"endpoint":   endpointPath,
		"fields":     fieldContext(form),
		"css_vars":   cssVarsStyle(r.cssVars),
		"stylesheet": r.stylesheet,
	}
	for key, value := range script {
		encoded, err := scriptJSON(value)
		if err != nil {
			return nil, fmt.Errorf("page renderer: encode %s: %w", key, err)
		}
		data[key] = encoded
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return nil, fmt.Errorf("page renderer: render template: %w", err)
	}
	return buf.Bytes(), nil
}

func fieldContext(form model.Form) []map[string]any {
	ids := form.Fields.IDs()
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]any{
			"id":    id,
			"label": form.Label(id),
			"files": form.Fields[id] == model.FieldKindFiles,
		})
	}
	return out
}

// scriptJSON encodes value for inline <script> use. json.Marshal escapes
// <, > and & so the payload cannot close the script element.
func scriptJSON(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func mergeVariant(manifest *theme.Manifest, variant string) (map[string]string, map[string]string, string) {
	tokens := copyStringMap(manifest.Tokens)
	assets := copyStringMap(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if v, ok := manifest.Variants[variant]; ok && variant != "" {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
		for key, value := range v.Assets.Files {
			assets[key] = value
		}
		if strings.TrimSpace(v.Assets.Prefix) != "" {
			prefix = v.Assets.Prefix
		}
	}
	return tokens, assets, prefix
}

func cssVarsFromTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		vars[name] = value
	}
	return vars
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(sanitizeCSSValue(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// sanitizeCSSValue drops characters that could end the declaration or the
// enclosing style element.
func sanitizeCSSValue(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>':
			return -1
		}
		return r
	}, value)
}

func joinAsset(prefix, file string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return file
	}
	return prefix + "/" + strings.TrimLeft(file, "/")
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
