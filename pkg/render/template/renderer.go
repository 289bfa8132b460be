package template

// TemplateRenderer is the engine seam HTML renderers depend on: resolve a
// template by name and execute it against data.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
