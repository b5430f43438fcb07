// Package payload turns the current state of a form into a multipart body.
// A Payload is built fresh for every submission and discarded afterwards.
package payload

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/darim/imageform/pkg/model"
)

// Entry is one multipart part. File is nil for scalar values.
type Entry struct {
	Name  string
	Value string
	File  *File
}

// IsFile reports whether the entry carries an upload.
func (e Entry) IsFile() bool {
	return e.File != nil
}

// Payload is an ordered list of entries.
type Payload struct {
	entries []Entry
}

// Build walks fields in id order and collects entries from src. Every file
// of a "files" field is appended under the same id; a "value" field yields
// exactly one entry.
func Build(ctx context.Context, fields model.FieldDescriptors, src FieldSource) (*Payload, error) {
	if src == nil {
		return nil, fmt.Errorf("payload: field source is nil")
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}

	p := &Payload{}
	for _, id := range fields.IDs() {
		switch fields[id] {
		case model.FieldKindFiles:
			files, err := src.Files(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("payload: files for %q: %w", id, err)
			}
			for i := range files {
				file := files[i]
				p.entries = append(p.entries, Entry{Name: id, File: &file})
			}
		case model.FieldKindValue:
			value, err := src.Value(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("payload: value for %q: %w", id, err)
			}
			p.entries = append(p.entries, Entry{Name: id, Value: value})
		}
	}
	return p, nil
}

// Entries returns a copy of the entries in append order.
func (p *Payload) Entries() []Entry {
	if p == nil {
		return nil
	}
	return append([]Entry(nil), p.entries...)
}

// Len reports the number of parts.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Count reports how many parts were appended under name.
func (p *Payload) Count(name string) int {
	if p == nil {
		return 0
	}
	n := 0
	for _, entry := range p.entries {
		if entry.Name == name {
			n++
		}
	}
	return n
}

// Encode writes the payload as multipart/form-data and returns the body with
// its Content-Type header value (boundary included).
func (p *Payload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, entry := range p.Entries() {
		if !entry.IsFile() {
			if err := w.WriteField(entry.Name, entry.Value); err != nil {
				return nil, "", fmt.Errorf("payload: write field %q: %w", entry.Name, err)
			}
			continue
		}
		part, err := w.CreatePart(fileHeader(entry.Name, *entry.File))
		if err != nil {
			return nil, "", fmt.Errorf("payload: create part %q: %w", entry.Name, err)
		}
		if _, err := part.Write(entry.File.Data); err != nil {
			return nil, "", fmt.Errorf("payload: write part %q: %w", entry.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("payload: close writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(name string, file File) textproto.MIMEHeader {
	filename := file.Name
	if strings.TrimSpace(filename) == "" {
		filename = "blob"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", file.DetectedType())
	return h
}
