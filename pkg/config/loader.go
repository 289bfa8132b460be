package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option configures how documents are loaded and checked.
type Option func(*options)

type options struct {
	strictTypes bool
}

// WithStrictTypes rejects fields whose type is not a known FieldType. By
// default unknown types load fine and renderers skip them.
func WithStrictTypes() Option {
	return func(o *options) {
		o.strictTypes = true
	}
}

// WithStrict toggles WithStrictTypes from a boolean, convenient for flags.
func WithStrict(enabled bool) Option {
	return func(o *options) {
		o.strictTypes = enabled
	}
}

func newOptions(opts ...Option) options {
	var cfg options
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Load reads a JSON or YAML form config from disk.
func Load(path string, opts ...Option) (FormConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// LoadFS reads a form config from fsys.
func LoadFS(fsys fs.FS, name string, opts ...Option) (FormConfig, error) {
	if fsys == nil {
		return FormConfig{}, fmt.Errorf("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return FormConfig{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name, opts...)
}

// Parse decodes a document that is either a bare list of fields or an object
// with title, submitLabel and fields. JSON is tried first, then YAML. The
// result is checked before it is returned.
func Parse(data []byte, source string, opts ...Option) (FormConfig, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormConfig{}, fmt.Errorf("config: file %s is empty", source)
	}

	cfg, err := decode(trimmed, source)
	if err != nil {
		return FormConfig{}, err
	}
	cfg.applyDefaults()

	if err := Check(cfg, opts...); err != nil {
		return FormConfig{}, err
	}
	return cfg, nil
}

func decode(data []byte, source string) (FormConfig, error) {
	if preferYAML(source) {
		if cfg, err := decodeYAML(data); err == nil {
			return cfg, nil
		}
		return FormConfig{}, fmt.Errorf("config: parse %s: invalid YAML", source)
	}

	if cfg, err := decodeJSON(data); err == nil {
		return cfg, nil
	}
	if cfg, err := decodeYAML(data); err == nil {
		return cfg, nil
	}
	return FormConfig{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

func decodeJSON(data []byte) (FormConfig, error) {
	if data[0] == '[' {
		var fields []FieldSpec
		if err := json.Unmarshal(data, &fields); err != nil {
			return FormConfig{}, err
		}
		return FormConfig{Fields: fields}, nil
	}
	var cfg FormConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FormConfig{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte) (FormConfig, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return FormConfig{}, err
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var fields []FieldSpec
		if err := root.Decode(&fields); err != nil {
			return FormConfig{}, err
		}
		return FormConfig{Fields: fields}, nil
	case yaml.MappingNode:
		var cfg FormConfig
		if err := root.Decode(&cfg); err != nil {
			return FormConfig{}, err
		}
		return cfg, nil
	default:
		return FormConfig{}, fmt.Errorf("config: unexpected YAML document shape")
	}
}

func preferYAML(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Check enforces the structural invariants of a FormConfig: non-empty unique
// names and non-empty options for choice fields. Regex compilation is left to
// pkg/schema.
func Check(cfg FormConfig, opts ...Option) error {
	o := newOptions(opts...)
	seen := make(map[string]struct{}, len(cfg.Fields))

	for idx, field := range cfg.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return NewConfigError(fmt.Sprintf("#%d", idx), "name is required", nil)
		}
		if _, exists := seen[name]; exists {
			return NewConfigError(name, "duplicate field name", nil)
		}
		seen[name] = struct{}{}

		if !field.Type.Known() {
			if o.strictTypes {
				return NewConfigError(name, fmt.Sprintf("unknown field type %q", field.Type), nil)
			}
			continue
		}
		if field.Type.HasOptions() && len(field.Options) == 0 {
			return NewConfigError(name, fmt.Sprintf("%s field requires options", field.Type), nil)
		}
	}
	return nil
}
