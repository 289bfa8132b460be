package components

import "github.com/goliatone/go-dynform/pkg/config"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameSelect   = "select"
	NameRadio    = "radio"
	NameCheckbox = "checkbox"
	NameFile     = "file"
)

// ForType returns the default component for a field type, "" for unknown
// types.
func ForType(fieldType config.FieldType) string {
	switch fieldType {
	case config.FieldTypeText, config.FieldTypePassword:
		return NameInput
	case config.FieldTypeSelect:
		return NameSelect
	case config.FieldTypeRadio:
		return NameRadio
	case config.FieldTypeCheckbox:
		return NameCheckbox
	case config.FieldTypeFile:
		return NameFile
	default:
		return ""
	}
}
