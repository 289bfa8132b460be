package server

import (
	"context"
	"io/fs"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/render"
)

const (
	DefaultAddr = ":8080"
	DefaultPath = "/"

	// CSRFFieldName is the hidden input carrying the CSRF token.
	CSRFFieldName = "_csrf"
)

// PageRenderer renders the form page and the page shown after a successful
// submit. vanilla.Renderer satisfies it.
type PageRenderer interface {
	ContentType() string
	Render(ctx context.Context, cfg config.FormConfig, opts render.RenderOptions) ([]byte, error)
	RenderSuccess(ctx context.Context, cfg config.FormConfig, submissionID string, opts render.RenderOptions) ([]byte, error)
}

// Option configures a Server.
type Option func(*options)

type options struct {
	addr          string
	path          string
	renderer      PageRenderer
	handler       form.SubmitHandler
	csrf          bool
	theme         *theme.RendererConfig
	assetsPrefix  string
	assets        fs.FS
	logger        *slog.Logger
	requestLogger bool
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			o.addr = trimmed
		}
	}
}

// WithPath sets the path the form is mounted at.
func WithPath(path string) Option {
	return func(o *options) {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, "/") {
			trimmed = "/" + trimmed
		}
		o.path = trimmed
	}
}

// WithRenderer overrides the default vanilla renderer.
func WithRenderer(renderer PageRenderer) Option {
	return func(o *options) {
		o.renderer = renderer
	}
}

// WithSubmitHandler sets the handler that receives validated submissions.
func WithSubmitHandler(handler form.SubmitHandler) Option {
	return func(o *options) {
		o.handler = handler
	}
}

// WithCSRF enables echo's CSRF middleware. The token is read from the
// _csrf form field and emitted as a hidden input.
func WithCSRF(enabled bool) Option {
	return func(o *options) {
		o.csrf = enabled
	}
}

// WithTheme passes a resolved theme to every render.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *options) {
		o.theme = cfg
	}
}

// WithAssets serves fsys under prefix, typically the vanilla assets or a
// theme's static files.
func WithAssets(prefix string, fsys fs.FS) Option {
	return func(o *options) {
		o.assetsPrefix = strings.TrimSpace(prefix)
		o.assets = fsys
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRequestLogging logs one line per request.
func WithRequestLogging(enabled bool) Option {
	return func(o *options) {
		o.requestLogger = enabled
	}
}
