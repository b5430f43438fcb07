package forms

import (
	"embed"
	"io/fs"
)

//go:embed catalog/*
var embeddedCatalog embed.FS

// EmbeddedFS returns the bundled catalogue files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalog, "catalog")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Builtin loads the bundled image builder forms.
func Builtin() (*Catalog, error) {
	return LoadFS(EmbeddedFS())
}
