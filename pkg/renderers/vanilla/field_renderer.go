package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/render/template"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla/components"
)

// DefaultSelectPrompt labels the leading empty option of select fields without
// a placeholder.
const DefaultSelectPrompt = "Select an option"

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	partials  map[string]string
	logger    *slog.Logger

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides, partials map[string]string, logger *slog.Logger) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		overrides:      overrides,
		partials:       partials,
		logger:         logger,
		usedComponents: make(map[string]struct{}),
	}
}

// render returns the markup for one field: label, control, description and
// error slot. Fields of unknown type render nothing.
func (r *componentRenderer) render(field config.FieldSpec, options render.RenderOptions) (string, error) {
	componentName := r.overrides[field.Name]
	if componentName == "" {
		componentName = components.ForType(field.Type)
	}
	if componentName == "" {
		r.logger.Warn("vanilla renderer: skipping field with unknown type", "field", field.Name, "type", string(field.Type))
		return "", nil
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	view := buildFieldView(field, options)
	description := sanitizeDescription(field.Description)
	view.DescribedBy = describedBy(field.Name, description != "", view.Invalid)

	data := components.ComponentData{
		Template: r.templates,
		Partials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, view, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}

	r.usedComponents[componentName] = struct{}{}

	return buildFieldMarkup(view, componentName, control.String(), description, options.FieldError(field.Name)), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

func buildFieldView(field config.FieldSpec, options render.RenderOptions) components.Field {
	value, ok := options.Values[field.Name]
	if !ok || value == nil {
		value = field.DefaultValue()
	}

	view := components.Field{
		Name:        field.Name,
		Type:        string(field.Type),
		Label:       field.DisplayLabel(),
		Placeholder: strings.TrimSpace(field.Placeholder),
		ID:          componentControlID(field.Name),
		LabelID:     componentLabelID(field.Name),
		Required:    field.Validation.Required,
		Invalid:     options.FieldError(field.Name) != "",
	}
	if view.Invalid {
		view.ErrorID = componentErrorID(field.Name)
	}

	switch field.Type {
	case config.FieldTypeCheckbox:
		checked, _ := value.(bool)
		view.Checked = checked
	case config.FieldTypePassword, config.FieldTypeFile:
		// never echoed back into the markup
	default:
		view.Value = fmt.Sprint(value)
	}

	if field.Type == config.FieldTypeSelect && view.Placeholder == "" {
		view.Placeholder = DefaultSelectPrompt
	}

	if field.Type.HasOptions() {
		view.Options = make([]components.Option, 0, len(field.Options))
		for idx, option := range field.Options {
			view.Options = append(view.Options, components.Option{
				ID:       optionID(field.Name, idx),
				Value:    option,
				Label:    option,
				Selected: option == view.Value,
			})
		}
	}
	return view
}

func describedBy(name string, hasDescription, invalid bool) string {
	ids := make([]string, 0, 2)
	if hasDescription {
		ids = append(ids, componentDescriptionID(name))
	}
	if invalid {
		ids = append(ids, componentErrorID(name))
	}
	return strings.Join(ids, " ")
}

func buildFieldMarkup(field components.Field, componentName, control, description, message string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	builder.WriteString(` `)
	builder.WriteString(string(ClassField))
	builder.WriteString(`--`)
	builder.WriteString(html.EscapeString(field.Type))
	if field.Invalid {
		builder.WriteString(` `)
		builder.WriteString(string(ClassField))
		builder.WriteString(`--invalid`)
	}
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString("\">\n")

	if labelSupportsFor(componentName) {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`" id="`)
	} else {
		builder.WriteString(`    <span id="`)
	}
	builder.WriteString(html.EscapeString(field.LabelID))
	builder.WriteString(`" class="`)
	builder.WriteString(string(ClassLabel))
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(field.Label))
	if field.Required {
		builder.WriteString(` <span class="dynform-required" aria-hidden="true">*</span>`)
	}
	if labelSupportsFor(componentName) {
		builder.WriteString("</label>\n")
	} else {
		builder.WriteString("</span>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if description != "" {
		builder.WriteString(`    <small id="`)
		builder.WriteString(html.EscapeString(componentDescriptionID(field.Name)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassDescription))
		builder.WriteString(`">`)
		builder.WriteString(description)
		builder.WriteString("</small>\n")
	}

	if message != "" {
		builder.WriteString(`    <p id="`)
		builder.WriteString(html.EscapeString(field.ErrorID))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassFieldError))
		builder.WriteString(`" role="alert">`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
