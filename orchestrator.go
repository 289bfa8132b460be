package dynform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/orchestrator"
	"github.com/goliatone/go-dynform/pkg/render"
)

// RenderOptions describes per-request state renderers use to prefill values
// or surface validation errors.
type RenderOptions = render.RenderOptions

// FormConfig aliases config.FormConfig for callers that only import the root
// package.
type FormConfig = config.FormConfig

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders cfg with the named renderer (vanilla when empty). It is
// the simplest entry point for callers that just want HTML output.
func RenderHTML(ctx context.Context, cfg FormConfig, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Config:        &cfg,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeManifests builds a selector over manifests and selects defaultTheme
// and defaultVariant when a request names none.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (orchestrator.Option, error) {
	selector, err := orchestrator.NewManifestSelector(manifests...)
	if err != nil {
		return nil, err
	}
	return func(o *orchestrator.Orchestrator) {
		orchestrator.WithThemeSelector(selector)(o)
		orchestrator.WithThemeDefaults(defaultTheme, defaultVariant)(o)
	}, nil
}
