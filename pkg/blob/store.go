// Package blob keeps received image bodies addressable by object URLs so a
// display slot can reference them without another round trip.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Scheme prefixes every object URL minted by a Store.
const Scheme = "blob:"

// ErrEmpty is returned when decoding a blob without data.
var ErrEmpty = errors.New("blob: no data")

// Blob is an in-memory body with its media type.
type Blob struct {
	Type string
	Data []byte
}

// Size reports the byte length.
func (b Blob) Size() int {
	return len(b.Data)
}

// Decode parses the blob as an image.
func (b Blob) Decode() (image.Image, error) {
	if len(b.Data) == 0 {
		return nil, ErrEmpty
	}
	img, err := imaging.Decode(bytes.NewReader(b.Data))
	if err != nil {
		return nil, fmt.Errorf("blob: decode %s: %w", b.Type, err)
	}
	return img, nil
}

// Save decodes the blob and writes it to path in the format implied by the
// file extension.
func (b Blob) Save(path string) error {
	img, err := b.Decode()
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("blob: save %s: %w", path, err)
	}
	return nil
}

// Store maps object URLs to blobs. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	origin  string
	entries map[string]Blob
}

// NewStore returns an empty store minting URLs under origin.
func NewStore(origin string) *Store {
	return &Store{
		origin:  strings.TrimRight(strings.TrimSpace(origin), "/"),
		entries: make(map[string]Blob),
	}
}

// Create registers b and returns its object URL.
func (s *Store) Create(b Blob) string {
	url := Scheme + s.origin + "/" + uuid.NewString()
	data := append([]byte(nil), b.Data...)

	s.mu.Lock()
	s.entries[url] = Blob{Type: b.Type, Data: data}
	s.mu.Unlock()
	return url
}

// Resolve returns the blob behind url.
func (s *Store) Resolve(url string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.entries[url]
	return b, ok
}

// Revoke releases url. It reports whether the URL was live.
func (s *Store) Revoke(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[url]; !ok {
		return false
	}
	delete(s.entries, url)
	return true
}

// Len reports the number of live URLs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsObjectURL reports whether url was minted by a Store.
func IsObjectURL(url string) bool {
	return strings.HasPrefix(url, Scheme)
}
