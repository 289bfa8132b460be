package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carries per-render state that is not part of the static
// config: the current values, the current validation errors and page chrome.
type RenderOptions struct {
	// Action is the form's submit URL. Empty submits to the current page.
	Action string
	// Method defaults to POST.
	Method string
	// Values binds controls to the current form values keyed by field name.
	// Missing entries render as the field's default.
	Values map[string]any
	// Errors fills each field's inline error slot. Only the first message of
	// a field is shown.
	Errors map[string][]string
	// FormErrors are shown above the fields, e.g. a failed submit handler.
	FormErrors []string
	// Hidden fields are emitted in name order before the visible fields.
	Hidden []HiddenField
	// Theme carries a resolved go-theme selection. Partials override
	// component templates by key ("forms.input", "forms.select", ...).
	Theme *theme.RendererConfig
}

// FieldError returns the message for a field's error slot.
func (o RenderOptions) FieldError(name string) string {
	for _, msg := range o.Errors[name] {
		if msg != "" {
			return msg
		}
	}
	return ""
}

// WithErrors converts a single-message error map into RenderOptions.Errors.
func (o RenderOptions) WithErrors(errs map[string]string) RenderOptions {
	if len(errs) == 0 {
		o.Errors = nil
		return o
	}
	o.Errors = make(map[string][]string, len(errs))
	for name, msg := range errs {
		o.Errors[name] = []string{msg}
	}
	return o
}
