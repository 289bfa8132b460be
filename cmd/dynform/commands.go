package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	dynform "github.com/goliatone/go-dynform"
	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/openapi"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/tui"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynform/pkg/server"
)

func newRenderCommand(root *rootOptions) *cobra.Command {
	var (
		output   string
		fragment bool
		action   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var vanillaOptions []vanilla.Option
			vanillaOptions = append(vanillaOptions, vanilla.WithLogger(root.log))
			if fragment {
				vanillaOptions = append(vanillaOptions, vanilla.WithFragment())
			}
			renderer, err := vanilla.New(vanillaOptions...)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(renderer)

			orch, err := root.orchestrator(registry)
			if err != nil {
				return err
			}
			req := root.request()
			req.RenderOptions = render.RenderOptions{Action: action}
			out, err := orch.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "emit only the <form> element")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	return cmd
}

func newPromptCommand(root *rootOptions) *cobra.Command {
	var (
		format   string
		output   string
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill the form interactively in the terminal and print the values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, _, err := root.formConfig(ctx)
			if err != nil {
				return err
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithMaxAttempts(attempts),
				tui.WithSubmitHandler(dynform.DefaultSubmitHandler(root.log, cfg)),
				tui.WithLogger(root.log),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Render(ctx, cfg, render.RenderOptions{})
			if errors.Is(err, tui.ErrAborted) {
				return errors.New("prompt aborted")
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, append(out, '\n'))
		},
	}

	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&attempts, "max-attempts", tui.DefaultMaxAttempts, "re-prompts per field before giving up")
	return cmd
}

func newServeCommand(root *rootOptions) *cobra.Command {
	var (
		addr string
		path string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, _, err := root.formConfig(ctx)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("addr") {
				root.app.Server.Addr = addr
			}
			if cmd.Flags().Changed("path") {
				root.app.Form.Path = path
			}

			orch, err := root.orchestrator(nil)
			if err != nil {
				return err
			}
			themeCfg, err := orch.Theme("", "")
			if err != nil {
				return err
			}

			srv, err := server.New(cfg,
				server.WithAddr(root.app.Server.Addr),
				server.WithPath(root.app.Form.Path),
				server.WithCSRF(root.app.Server.CSRF),
				server.WithRequestLogging(root.app.Server.LogRequest),
				server.WithTheme(themeCfg),
				server.WithAssets("/assets", dynform.EmbeddedAssets()),
				server.WithSubmitHandler(dynform.DefaultSubmitHandler(nil, cfg)),
				server.WithLogger(root.log),
			)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")
	cmd.Flags().StringVar(&path, "path", "", "mount path (overrides [form] path)")
	return cmd
}

func newSchemaCommand(root *rootOptions) *cobra.Command {
	var (
		output    string
		path      string
		serverURL string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI document describing the form submission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := root.formConfig(cmd.Context())
			if err != nil {
				return err
			}
			if path == "" {
				path = root.app.Form.Path
			}
			doc, err := openapi.Build(cfg, openapi.WithPath(path), openapi.WithServer(serverURL))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode openapi document: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, append(data, '\n'))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&path, "path", "", "operation path (defaults to [form] path)")
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL to include")
	return cmd
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the form document and its rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, rules, err := root.formConfig(cmd.Context())
			if err != nil {
				var cfgErr *config.ConfigError
				if errors.As(err, &cfgErr) {
					return fmt.Errorf("invalid form: %w", cfgErr)
				}
				return err
			}

			skipped := len(cfg.Fields) - rules.Len()
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d field(s), %d rule(s)", len(cfg.Fields), rules.Len())
			if skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d skipped (unknown type)", skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())

			defaults := form.DefaultValues(cfg)
			for _, name := range rules.Names() {
				rule, _ := rules.Rule(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %-9s required=%t pattern=%t default=%v\n",
					name, rule.Type, rule.Required, rule.Pattern != nil, defaults[name])
			}
			return nil
		},
	}
}

func newImportCommand(root *rootOptions) *cobra.Command {
	var (
		output string
		path   string
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "import <openapi-document>",
		Short: "Derive a form document from an OpenAPI request body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(args[0])
			if err != nil {
				return err
			}
			if path == "" {
				path = root.app.Form.Path
			}
			cfg, err := dynform.ConfigFromOpenAPI(cmd.Context(), data, path)
			if err != nil {
				return err
			}

			var out []byte
			if asYAML {
				out, err = yaml.Marshal(cfg)
			} else {
				out, err = json.MarshalIndent(cfg, "", "  ")
				out = append(out, '\n')
			}
			if err != nil {
				return fmt.Errorf("encode form document: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&path, "path", "", "operation path (defaults to [form] path)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "emit YAML instead of JSON")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
