package payload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is one selected upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// DetectedType returns ContentType, sniffing the data when it is unset.
func (f File) DetectedType() string {
	if ct := strings.TrimSpace(f.ContentType); ct != "" {
		return ct
	}
	return mimetype.Detect(f.Data).String()
}

// FieldSource supplies the current value of each input element, keyed by the
// element id used in a FieldDescriptors map.
type FieldSource interface {
	Files(ctx context.Context, id string) ([]File, error)
	Value(ctx context.Context, id string) (string, error)
}

// MapSource is an in-memory FieldSource. Missing ids yield no files and an
// empty value, matching an untouched input.
type MapSource struct {
	FileSets map[string][]File
	Values   map[string]string
}

var _ FieldSource = MapSource{}

func (s MapSource) Files(ctx context.Context, id string) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FileSets[id], nil
}

func (s MapSource) Value(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Values[id], nil
}

// PathSource reads uploads from disk paths and serves values from a map.
type PathSource struct {
	Paths  map[string][]string
	Values map[string]string
}

var _ FieldSource = PathSource{}

func (s PathSource) Files(ctx context.Context, id string) ([]File, error) {
	paths := s.Paths[id]
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (s PathSource) Value(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Values[id], nil
}

// ReadFile loads a file from disk and sniffs its content type.
func ReadFile(path string) (File, error) {
	clean := filepath.Clean(strings.TrimSpace(path))
	data, err := os.ReadFile(clean)
	if err != nil {
		return File{}, fmt.Errorf("payload: read %s: %w", clean, err)
	}
	return File{
		Name:        filepath.Base(clean),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}
