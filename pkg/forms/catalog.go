// Package forms loads named form definitions from JSON or YAML catalogue
// files. The image builder's own forms ship embedded; see Builtin.
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/darim/imageform/pkg/model"
)

// ErrUnknownForm is returned by Lookup for names not in the catalogue.
var ErrUnknownForm = errors.New("forms: unknown form")

// Catalog is a set of forms keyed by name.
type Catalog struct {
	forms map[string]model.Form
}

// New returns a catalogue holding the supplied forms. Names must be unique.
func New(forms ...model.Form) (*Catalog, error) {
	c := &Catalog{forms: make(map[string]model.Form, len(forms))}
	for _, form := range forms {
		if err := c.add(form, "inline"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A nil
// filesystem yields an empty catalogue.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{forms: make(map[string]model.Form)}
	if fsys == nil {
		return c, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, raw := range doc.Forms {
			raw.Name = strings.TrimSpace(name)
			if err := c.add(raw, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the named form.
func (c *Catalog) Lookup(name string) (model.Form, error) {
	form, ok := c.Form(name)
	if !ok {
		return model.Form{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return form, nil
}

// Form returns the named form and whether it exists.
func (c *Catalog) Form(name string) (model.Form, bool) {
	if c == nil {
		return model.Form{}, false
	}
	form, ok := c.forms[strings.TrimSpace(name)]
	if !ok {
		return model.Form{}, false
	}
	return cloneForm(form), true
}

// Names returns the form names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.forms))
	for name := range c.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of forms.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.forms)
}

// Merge returns a catalogue with other's forms layered over c's.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{forms: make(map[string]model.Form, c.Len()+other.Len())}
	for _, src := range []*Catalog{c, other} {
		if src == nil {
			continue
		}
		for name, form := range src.forms {
			out.forms[name] = cloneForm(form)
		}
	}
	return out
}

func (c *Catalog) add(form model.Form, source string) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return fmt.Errorf("forms: file %s defines a form with an empty name", source)
	}
	if _, exists := c.forms[name]; exists {
		return fmt.Errorf("forms: duplicate form %q (file %s)", name, source)
	}
	form.Name = name
	form.Endpoint = strings.Trim(strings.TrimSpace(form.Endpoint), "/")
	if err := form.Validate(); err != nil {
		return fmt.Errorf("forms: form %q (file %s): %w", name, source, err)
	}
	c.forms[name] = cloneForm(form)
	return nil
}

type documentFile struct {
	Forms map[string]model.Form `json:"forms" yaml:"forms"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("forms: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("forms: parse %s: invalid JSON or YAML", source)
}

func cloneForm(form model.Form) model.Form {
	out := form
	out.Fields = form.Fields.Clone()
	if len(form.Labels) > 0 {
		out.Labels = make(map[string]string, len(form.Labels))
		for k, v := range form.Labels {
			out.Labels[k] = v
		}
	}
	return out
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
