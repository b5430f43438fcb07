// Package ui holds the small pieces of interface state a submission cycle
// touches: the submit control, the image display slot and the alert surface.
package ui

import "sync"

// HoverableClass is the visual class a control carries only while enabled.
const HoverableClass = "hoverable"

// Control is the submit button.
type Control struct {
	mu       sync.Mutex
	disabled bool
	classes  map[string]struct{}
}

// NewControl returns an enabled control carrying the hoverable class.
func NewControl() *Control {
	return &Control{classes: map[string]struct{}{HoverableClass: {}}}
}

// Enabled reports whether the control accepts submissions.
func (c *Control) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.disabled
}

// HasClass reports whether the control carries class.
func (c *Control) HasClass(class string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.classes[class]
	return ok
}

// Disable sets the disabled flag and drops the hoverable class.
func (c *Control) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = true
	delete(c.classes, HoverableClass)
}

// Enable clears the disabled flag and restores the hoverable class.
func (c *Control) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = false
	if c.classes == nil {
		c.classes = make(map[string]struct{})
	}
	c.classes[HoverableClass] = struct{}{}
}
