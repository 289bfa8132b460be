// Package config defines the static form description (FormConfig and
// FieldSpec) and loads it from JSON or YAML. A document is either a bare list
// of fields or an object carrying a title, a submit label and the field list.
// Loading enforces the structural invariants (unique names, options on choice
// fields) and reports violations as *ConfigError.
package config
