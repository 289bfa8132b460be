package render

import (
	"context"

	"github.com/goliatone/go-dynform/pkg/config"
)

// Renderer turns a form config plus its current state into output bytes (HTML
// for the vanilla renderer, serialized values for the terminal renderer).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form config.FormConfig, options RenderOptions) ([]byte, error)
}
