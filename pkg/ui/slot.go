package ui

import "sync"

// DefaultPlaceholder is shown while a request is in flight.
const DefaultPlaceholder = "images/loading.gif"

// Revoker releases object URLs held by a Slot.
type Revoker interface {
	Revoke(url string) bool
}

// Slot is the image display target. It holds nothing, the loading
// placeholder, or an object URL. Object URLs are revoked when replaced or
// cleared.
type Slot struct {
	mu          sync.Mutex
	src         string
	held        string
	placeholder string
	revoker     Revoker
}

// NewSlot returns an empty slot. revoker may be nil when nothing needs
// releasing.
func NewSlot(placeholder string, revoker Revoker) *Slot {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Slot{placeholder: placeholder, revoker: revoker}
}

// Src returns the current source; empty means nothing is displayed.
func (s *Slot) Src() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src
}

// Placeholder returns the loading placeholder URL.
func (s *Slot) Placeholder() string {
	return s.placeholder
}

// ShowPlaceholder displays the loading placeholder. A held object URL stays
// live until the slot is given a new image or cleared.
func (s *Slot) ShowPlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = s.placeholder
}

// SetImage displays url and releases the object URL it replaces.
func (s *Slot) SetImage(url string) {
	s.mu.Lock()
	previous := s.held
	s.src = url
	s.held = url
	s.mu.Unlock()

	if previous != "" && previous != url {
		s.revoke(previous)
	}
}

// ClearIfPlaceholder empties the slot when it still shows the placeholder,
// reporting whether it did.
func (s *Slot) ClearIfPlaceholder() bool {
	s.mu.Lock()
	if s.src != s.placeholder {
		s.mu.Unlock()
		return false
	}
	s.src = ""
	previous := s.held
	s.held = ""
	s.mu.Unlock()

	if previous != "" {
		s.revoke(previous)
	}
	return true
}

// Clear empties the slot and releases any held object URL.
func (s *Slot) Clear() {
	s.mu.Lock()
	previous := s.held
	s.src = ""
	s.held = ""
	s.mu.Unlock()

	if previous != "" {
		s.revoke(previous)
	}
}

func (s *Slot) revoke(url string) {
	if s.revoker != nil {
		s.revoker.Revoke(url)
	}
}
