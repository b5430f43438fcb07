package openapi

import (
	"embed"
	"io/fs"
)

// ImageBuilderDocument is the name of the bundled API description inside
// EmbeddedFS.
const ImageBuilderDocument = "imagebuilder.yaml"

//go:embed spec/*
var embeddedSpec embed.FS

// EmbeddedFS returns the bundled OpenAPI documents. Pair it with
// WithFileSystem and SourceFromFS(ImageBuilderDocument).
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSpec, "spec")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
