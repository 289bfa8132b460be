package dynform

import (
	"context"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/openapi"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// LoadConfig reads a JSON or YAML form document and compiles its rules so a
// malformed regex surfaces here rather than at mount time.
func LoadConfig(path string, options ...config.Option) (FormConfig, error) {
	cfg, err := config.Load(path, options...)
	if err != nil {
		return FormConfig{}, err
	}
	if _, err := schema.Build(cfg); err != nil {
		return FormConfig{}, err
	}
	return cfg, nil
}

// ConfigFromOpenAPI derives a form from the POST request body at path in an
// OpenAPI 3 document.
func ConfigFromOpenAPI(ctx context.Context, data []byte, path string) (FormConfig, error) {
	doc, err := openapi.Parse(ctx, data)
	if err != nil {
		return FormConfig{}, err
	}
	return openapi.FormConfig(doc, path)
}
