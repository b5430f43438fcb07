package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldKind tags how a form field contributes to the submission payload.
type FieldKind string

const (
	// FieldKindFiles contributes every selected file under the field id.
	FieldKindFiles FieldKind = "files"
	// FieldKindValue contributes exactly one scalar string.
	FieldKindValue FieldKind = "value"
)

// Valid reports whether the kind is one of the supported tags.
func (k FieldKind) Valid() bool {
	return k == FieldKindFiles || k == FieldKindValue
}

var (
	// ErrEmptyFieldID is returned when a descriptor map contains a blank id.
	ErrEmptyFieldID = errors.New("model: field id is empty")
	// ErrInvalidKind is returned for tags other than "files" and "value".
	ErrInvalidKind = errors.New("model: invalid field kind")
	// ErrEmptyEndpoint is returned when a form does not name its endpoint.
	ErrEmptyEndpoint = errors.New("model: form endpoint is empty")
)

// FieldDescriptors maps an input element id to the kind of data it holds.
// Iteration order carries no meaning; use IDs for a deterministic walk.
type FieldDescriptors map[string]FieldKind

// Validate checks ids and kinds.
func (d FieldDescriptors) Validate() error {
	for id, kind := range d {
		if strings.TrimSpace(id) == "" {
			return ErrEmptyFieldID
		}
		if !kind.Valid() {
			return fmt.Errorf("%w: %q for field %q", ErrInvalidKind, kind, id)
		}
	}
	return nil
}

// IDs returns the field ids in sorted order.
func (d FieldDescriptors) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the map.
func (d FieldDescriptors) Clone() FieldDescriptors {
	if d == nil {
		return nil
	}
	out := make(FieldDescriptors, len(d))
	for id, kind := range d {
		out[id] = kind
	}
	return out
}

// Form is a named submission target: an endpoint on the image API plus the
// fields collected for it.
type Form struct {
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Endpoint string            `json:"endpoint" yaml:"endpoint"`
	Fields   FieldDescriptors  `json:"fields" yaml:"fields"`
	Labels   map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Validate checks the endpoint and the descriptor map.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Endpoint) == "" {
		return ErrEmptyEndpoint
	}
	return f.Fields.Validate()
}

// Label returns the human label for a field, falling back to the id.
func (f Form) Label(id string) string {
	if label := strings.TrimSpace(f.Labels[id]); label != "" {
		return label
	}
	return id
}

// DisplayTitle returns Title, or Name when no title is set.
func (f Form) DisplayTitle() string {
	if title := strings.TrimSpace(f.Title); title != "" {
		return title
	}
	return f.Name
}
