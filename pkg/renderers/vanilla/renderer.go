package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/render"
	rendertemplate "github.com/goliatone/go-dynform/pkg/render/template"
	gotemplate "github.com/goliatone/go-dynform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla/components"
)

const (
	formTemplate    = "templates/form.tmpl"
	pageTemplate    = "templates/page.tmpl"
	successTemplate = "templates/success.tmpl"
)

type Option func(*options)

type options struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	overrides        map[string]string
	classes          ChromeClasses
	fragment         bool
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *options) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *options) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *options) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *options) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithComponentOverrides renders the named fields with a different registered
// component, keyed by field name.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *options) {
		if len(overrides) == 0 {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for field, component := range overrides {
			cfg.overrides[strings.TrimSpace(field)] = strings.TrimSpace(component)
		}
	}
}

// WithChromeClasses overrides the classes of the form chrome.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *options) {
		cfg.classes = classes
	}
}

// WithFragment renders only the <form> element instead of a full document.
func WithFragment() Option {
	return func(cfg *options) {
		cfg.fragment = true
	}
}

// WithLogger sets the logger used for skipped fields.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *options) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	classes   ChromeClasses
	fragment  bool
	logger    *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(opts ...Option) (*Renderer, error) {
	cfg := options{templateFS: TemplatesFS()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		registry:  cfg.registry,
		overrides: cfg.overrides,
		classes:   cfg.classes.withDefaults(),
		fragment:  cfg.fragment,
		logger:    cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML form for cfg bound to the values and errors in
// renderOptions.
func (r *Renderer) Render(ctx context.Context, form config.FormConfig, renderOptions render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	themeCtx := buildThemeContext(renderOptions.Theme)
	fields := newComponentRenderer(r.templates, r.registry, r.overrides, themeCtx.Partials, r.logger)

	markup := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		rendered, err := fields.render(field, renderOptions)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		if rendered != "" {
			markup = append(markup, rendered)
		}
	}

	method := strings.ToUpper(strings.TrimSpace(renderOptions.Method))
	if method == "" {
		method = "POST"
	}
	enctype := ""
	if form.HasFileField() {
		enctype = "multipart/form-data"
	}

	body, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form": map[string]any{
			"title":       titleOf(form),
			"submitLabel": submitLabelOf(form),
			"action":      renderOptions.Action,
			"method":      method,
			"enctype":     enctype,
			"errors":      render.MergeFormErrors(renderOptions.FormErrors),
			"hidden":      render.SortedHiddenFields(renderOptions.Hidden...),
		},
		"fields":  markup,
		"classes": r.classes,
		"theme":   themeCtx,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	if r.fragment {
		return []byte(body), nil
	}

	stylesheets, scripts := fields.assets()
	return r.page(titleOf(form), body, themeCtx, stylesheets, scripts)
}

// RenderSuccess produces the page shown after a successful submit.
func (r *Renderer) RenderSuccess(ctx context.Context, form config.FormConfig, submissionID string, renderOptions render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	back := renderOptions.Action
	if back == "" {
		back = "./"
	}
	body, err := r.templates.RenderTemplate(successTemplate, map[string]any{
		"success": map[string]any{
			"class":   string(ClassSuccess),
			"title":   titleOf(form),
			"message": "Thanks, your submission was received.",
			"id":      submissionID,
			"back":    back,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render success template: %w", err)
	}
	if r.fragment {
		return []byte(body), nil
	}
	return r.page(titleOf(form), body, buildThemeContext(renderOptions.Theme), nil, nil)
}

func (r *Renderer) page(title, body string, themeCtx rendererTheme, stylesheets []string, scripts []components.Script) ([]byte, error) {
	page := map[string]any{
		"title":       title,
		"class":       string(ClassPage),
		"body":        body,
		"cssVars":     themeCtx.CSSVarsStyle,
		"stylesheets": stylesheets,
		"scripts":     scriptViews(scripts),
	}
	if href := themeCtx.asset(StylesheetAssetKey); href != "" {
		page["stylesheetURL"] = href
	} else {
		page["stylesheet"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{"page": page})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page template: %w", err)
	}
	return []byte(result), nil
}

func titleOf(form config.FormConfig) string {
	if title := strings.TrimSpace(form.Title); title != "" {
		return title
	}
	return config.DefaultTitle
}

func submitLabelOf(form config.FormConfig) string {
	if label := strings.TrimSpace(form.SubmitLabel); label != "" {
		return label
	}
	return config.DefaultSubmitLabel
}

func scriptViews(scripts []components.Script) []map[string]any {
	if len(scripts) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, map[string]any{
			"src":    script.Src,
			"inline": script.Inline,
			"defer":  script.Defer,
			"module": script.Module,
		})
	}
	return out
}

type rendererTheme struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Partials     map[string]string `json:"-"`
	CSSVarsStyle string            `json:"-"`

	assetURL func(string) string
}

func (t rendererTheme) asset(key string) string {
	if t.assetURL == nil {
		return ""
	}
	return strings.TrimSpace(t.assetURL(key))
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	return rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		Partials:     copyStringMap(cfg.Partials),
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
		assetURL:     cfg.AssetURL,
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
