// Package model defines the form shapes shared by the submission client, the
// catalogue loaders and the renderers. A Form pairs an API endpoint with a
// FieldDescriptors map whose values are either FieldKindFiles (zero or more
// uploads under the same id) or FieldKindValue (one scalar string).
package model
