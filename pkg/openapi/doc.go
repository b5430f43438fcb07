// Package openapi exposes the loader and parser contracts used to derive
// submission forms from an API description. Implementations live under
// internal/openapi so kin-openapi types stay out of the public surface; the
// root imageform package wires them together.
package openapi
