// Package template defines the engine contract renderers compile templates
// through. The gotemplate subpackage provides the pongo2-backed default.
package template
