package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynform/pkg/schema"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can patch the config after it
// loads and before rules are compiled.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithConfigOptions forwards loader options (for example
// config.WithStrictTypes) to every config the orchestrator loads.
func WithConfigOptions(opts ...config.Option) Option {
	return func(o *Orchestrator) {
		o.configOptions = append(o.configOptions, opts...)
	}
}

// WithThemeSelector resolves theme selections through a go-theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeDefaults sets the theme and variant used when a request names none.
func WithThemeDefaults(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = strings.TrimSpace(name)
		o.defaultVariant = strings.TrimSpace(variant)
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates config loading, rule compilation and rendering. It
// defaults to a registry holding the vanilla renderer.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	configOptions   []config.Option
	themeSelector   theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render. Exactly one of Config, Path or FS+Path
// supplies the form.
type Request struct {
	// Config is used as-is when set.
	Config *config.FormConfig

	// FS, when set, is where Path is read from; otherwise Path is read from disk.
	FS   fs.FS
	Path string

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// RenderOptions carries values, errors and hidden inputs for the render.
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant select a theme through the configured
	// selector. RenderOptions.Theme, when already set, wins.
	ThemeName    string
	ThemeVariant string
}

// Resolve loads, transforms and checks the request's config. The returned
// RuleSet is compiled from the final config.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (config.FormConfig, schema.RuleSet, error) {
	if ctx == nil {
		return config.FormConfig{}, schema.RuleSet{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return config.FormConfig{}, schema.RuleSet{}, err
	}

	cfg, err := o.loadConfig(req)
	if err != nil {
		return config.FormConfig{}, schema.RuleSet{}, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &cfg); err != nil {
			return config.FormConfig{}, schema.RuleSet{}, fmt.Errorf("orchestrator: transform config: %w", err)
		}
		if err := config.Check(cfg, o.configOptions...); err != nil {
			return config.FormConfig{}, schema.RuleSet{}, err
		}
	}

	rules, err := schema.Build(cfg)
	if err != nil {
		return config.FormConfig{}, schema.RuleSet{}, err
	}
	return cfg, rules, nil
}

// Generate resolves the config and renders it with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	cfg, _, err := o.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		themeCfg, err := o.Theme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = themeCfg
	}

	output, err := renderer.Render(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("form rendered", "renderer", renderer.Name(), "fields", len(cfg.Fields))
	return output, nil
}

// Renderer returns a registered renderer, falling back to the default.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	return o.rendererFor(name)
}

func (o *Orchestrator) loadConfig(req Request) (config.FormConfig, error) {
	switch {
	case req.Config != nil:
		cfg := req.Config.Clone()
		if err := config.Check(cfg, o.configOptions...); err != nil {
			return config.FormConfig{}, err
		}
		return cfg, nil
	case strings.TrimSpace(req.Path) == "":
		return config.FormConfig{}, errors.New("orchestrator: config or path is required")
	case req.FS != nil:
		cfg, err := config.LoadFS(req.FS, req.Path, o.configOptions...)
		if err != nil {
			return config.FormConfig{}, fmt.Errorf("orchestrator: load config: %w", err)
		}
		return cfg, nil
	default:
		cfg, err := config.Load(req.Path, o.configOptions...)
		if err != nil {
			return config.FormConfig{}, fmt.Errorf("orchestrator: load config: %w", err)
		}
		return cfg, nil
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

// Theme resolves a theme selection into a RendererConfig. Empty name and
// variant fall back to WithThemeDefaults. It returns nil without a selector.
func (o *Orchestrator) Theme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if strings.TrimSpace(name) == "" {
		name = o.defaultTheme
	}
	if strings.TrimSpace(variant) == "" {
		variant = o.defaultVariant
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}

	cfg := render.ThemeConfig(selection.Manifest, selection.Variant)
	if cfg != nil && strings.TrimSpace(selection.Theme) != "" {
		cfg.Theme = selection.Theme
	}
	return cfg, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(vanilla.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
