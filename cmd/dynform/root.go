package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-dynform/internal/appconfig"
	"github.com/goliatone/go-dynform/internal/logger"
	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/orchestrator"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/schema"
)

type rootOptions struct {
	configPath string
	formPath   string
	strict     bool
	logLevel   string

	app appconfig.Config
	log *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dynform",
		Short:         "Render, prompt and serve forms described by a JSON or YAML config",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", appconfig.DefaultConfigPath, "application config (TOML)")
	flags.StringVarP(&opts.formPath, "form", "f", "", "form document (JSON or YAML); defaults to [form] config, then the embedded sample")
	flags.BoolVar(&opts.strict, "strict", false, "reject fields with unknown types")
	flags.StringVar(&opts.logLevel, "log-level", "", "override [log] level")

	cmd.AddCommand(
		newRenderCommand(opts),
		newPromptCommand(opts),
		newServeCommand(opts),
		newSchemaCommand(opts),
		newCheckCommand(opts),
		newImportCommand(opts),
	)
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	app, err := appconfig.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strict") {
		app.Form.Strict = o.strict
	}
	if strings.TrimSpace(o.formPath) != "" {
		app.Form.Config = o.formPath
	}
	if strings.TrimSpace(o.logLevel) != "" {
		app.Log.Level = o.logLevel
	}

	o.app = app
	o.log = logger.Init(app.Log.Level, app.Log.Format)
	return nil
}

func (o *rootOptions) configOptions() []config.Option {
	return []config.Option{config.WithStrict(o.app.Form.Strict)}
}

// formConfig loads the configured document, or the embedded sample, applies
// the optional preset and compiles the rules.
func (o *rootOptions) formConfig(ctx context.Context) (config.FormConfig, schema.RuleSet, error) {
	orch, err := o.orchestrator(render.NewRegistry())
	if err != nil {
		return config.FormConfig{}, schema.RuleSet{}, err
	}
	return orch.Resolve(ctx, o.request())
}

func (o *rootOptions) request() orchestrator.Request {
	if path := strings.TrimSpace(o.app.Form.Config); path != "" {
		return orchestrator.Request{Path: path}
	}
	return orchestrator.Request{FS: config.SampleFS(), Path: config.SamplePath}
}

// orchestrator builds an orchestrator with the preset and theme from the
// application config. A nil registry keeps the default vanilla renderer.
func (o *rootOptions) orchestrator(registry *render.Registry, extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{
		orchestrator.WithConfigOptions(o.configOptions()...),
		orchestrator.WithLogger(o.log),
	}
	if registry != nil {
		options = append(options, orchestrator.WithRegistry(registry))
	}

	if preset := strings.TrimSpace(o.app.Form.Preset); preset != "" {
		transformer, err := loadPreset(preset)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(transformer))
	}

	if manifestPath := strings.TrimSpace(o.app.Theme.Manifest); manifestPath != "" {
		manifest, err := orchestrator.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		selector, err := orchestrator.NewManifestSelector(manifest)
		if err != nil {
			return nil, err
		}
		options = append(options,
			orchestrator.WithThemeSelector(selector),
			orchestrator.WithThemeDefaults(o.app.Theme.Name, o.app.Theme.Variant),
		)
	}

	return orchestrator.New(append(options, extra...)...), nil
}

func loadPreset(path string) (*orchestrator.JSONPresetTransformer, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return orchestrator.NewJSONPresetTransformer(data)
}
