package config

import "strings"

// FieldType enumerates the controls a FieldSpec can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypePassword FieldType = "password"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeFile     FieldType = "file"
)

const (
	DefaultTitle       = "Dynamic Form"
	DefaultSubmitLabel = "Submit"
)

// Known reports whether the type is one of the supported field kinds.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypePassword, FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox, FieldTypeFile:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type is a choice control backed by Options.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// Validation holds the declarative rules attached to a field. Regex is kept as
// source text; pkg/schema compiles it.
type Validation struct {
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Regex    string `json:"regex,omitempty" yaml:"regex,omitempty"`
}

// FieldSpec describes one form field.
type FieldSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType  `json:"type" yaml:"type"`
	Options     []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  Validation `json:"validation" yaml:"validation"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// DefaultValue returns the value a field holds when the form mounts: false for
// checkboxes, "" for everything else.
func (f FieldSpec) DefaultValue() any {
	if f.Type == FieldTypeCheckbox {
		return false
	}
	return ""
}

// DisplayLabel falls back to the field name when no label is configured.
func (f FieldSpec) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// FormConfig is the ordered, load-once description of a whole form. Treat it
// as immutable once Load returns; accessors hand out copies.
type FormConfig struct {
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitLabel string      `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Fields      []FieldSpec `json:"fields" yaml:"fields"`
}

// Field looks up a field by name.
func (c FormConfig) Field(name string) (FieldSpec, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Names returns the field names in config order.
func (c FormConfig) Names() []string {
	names := make([]string, 0, len(c.Fields))
	for _, field := range c.Fields {
		names = append(names, field.Name)
	}
	return names
}

// HasFileField reports whether the form needs a multipart encoding.
func (c FormConfig) HasFileField() bool {
	for _, field := range c.Fields {
		if field.Type == FieldTypeFile {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate a shared config.
func (c FormConfig) Clone() FormConfig {
	out := FormConfig{
		Title:       c.Title,
		SubmitLabel: c.SubmitLabel,
		Fields:      make([]FieldSpec, len(c.Fields)),
	}
	for i, field := range c.Fields {
		field.Options = append([]string(nil), field.Options...)
		out.Fields[i] = field
	}
	return out
}

func (c *FormConfig) applyDefaults() {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = DefaultTitle
	}
	if strings.TrimSpace(c.SubmitLabel) == "" {
		c.SubmitLabel = DefaultSubmitLabel
	}
	for i := range c.Fields {
		c.Fields[i].Name = strings.TrimSpace(c.Fields[i].Name)
		c.Fields[i].Type = FieldType(strings.ToLower(strings.TrimSpace(string(c.Fields[i].Type))))
	}
}
