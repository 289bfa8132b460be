// Package openapi describes a form's submission payload as an OpenAPI 3
// document and reads such documents back into a FormConfig. Field types the
// schema cannot express directly (radio, password, file) round-trip through
// the x-dynform extensions.
package openapi
