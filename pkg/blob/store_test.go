package blob

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestStore_CreateResolveRevoke(t *testing.T) {
	store := NewStore("http://localhost:8000/")

	url := store.Create(Blob{Type: "image/png", Data: []byte("png")})
	if !strings.HasPrefix(url, "blob:http://localhost:8000/") {
		t.Fatalf("unexpected url %q", url)
	}
	if !IsObjectURL(url) {
		t.Fatalf("IsObjectURL(%q) = false", url)
	}

	got, ok := store.Resolve(url)
	if !ok || got.Type != "image/png" || string(got.Data) != "png" || got.Size() != 3 {
		t.Fatalf("resolve = %+v, %v", got, ok)
	}

	other := store.Create(Blob{Type: "image/png"})
	if other == url {
		t.Fatalf("urls must be unique")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 live urls, got %d", store.Len())
	}

	if !store.Revoke(url) {
		t.Fatalf("revoke reported not live")
	}
	if store.Revoke(url) {
		t.Fatalf("second revoke should report false")
	}
	if _, ok := store.Resolve(url); ok {
		t.Fatalf("revoked url still resolves")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 live url, got %d", store.Len())
	}
}

func TestStore_CopiesData(t *testing.T) {
	store := NewStore("")
	data := []byte("abc")
	url := store.Create(Blob{Type: "image/png", Data: data})
	data[0] = 'x'

	got, _ := store.Resolve(url)
	if string(got.Data) != "abc" {
		t.Fatalf("store aliases caller buffer: %q", got.Data)
	}
}

func TestBlob_DecodeAndSave(t *testing.T) {
	b := Blob{Type: "image/png", Data: encodePNG(t, 4, 3)}

	img, err := b.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bounds := img.Bounds(); bounds.Dx() != 4 || bounds.Dy() != 3 {
		t.Fatalf("unexpected bounds %v", bounds)
	}

	out := filepath.Join(t.TempDir(), "out.jpg")
	if err := b.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Fatalf("saved file missing: %v", err)
	}

	if _, err := (Blob{}).Decode(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := (Blob{Type: "image/png", Data: []byte("nope")}).Decode(); err == nil {
		t.Fatalf("expected decode error")
	}
}
