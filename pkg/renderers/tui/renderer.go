package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/render"
)

// SkipOption is the leading choice offered for optional select and radio
// fields. Picking it submits "".
const SkipOption = "(none)"

// Renderer implements render.Renderer for terminal-driven sessions. Every
// answer goes through a form.Form, so the same rules and messages apply as in
// the HTML renderer. Render returns the submitted values serialized in the
// configured output format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	onSubmit          form.SubmitHandler
	fileCheck         FileCheck
	maxAttempts       int
	theme             Theme
	logger            *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		fileCheck:    checkFile,
		maxAttempts:  DefaultMaxAttempts,
		logger:       slog.Default(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field in config order, re-prompting while a field
// fails its rule, then submits. opts.Values seed the prompt defaults and
// opts.Errors are shown before the matching prompt.
func (r *Renderer) Render(ctx context.Context, cfg config.FormConfig, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	var submitted form.Values
	f, err := form.New(cfg,
		form.WithLogger(r.logger),
		form.WithRetainOnSuccess(),
		form.WithSubmitHandler(func(ctx context.Context, values form.Values) error {
			submitted = values
			if r.onSubmit != nil {
				return r.onSubmit(ctx, values.Clone())
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(cfg.Title); title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+title); err != nil {
			return nil, err
		}
	}

	for _, field := range cfg.Fields {
		if !field.Type.Known() {
			r.logger.Warn("tui renderer: skipping field with unknown type", "field", field.Name, "type", string(field.Type))
			continue
		}
		for _, msg := range opts.Errors[field.Name] {
			if err := r.driver.Info(ctx, r.errorLine(field, msg)); err != nil {
				return nil, err
			}
		}
		if err := r.promptField(ctx, f, field, opts.Values[field.Name]); err != nil {
			return nil, err
		}
	}

	result, err := f.Submit(ctx)
	if err != nil {
		return nil, fmt.Errorf("tui: submit: %w", err)
	}
	if !result.Submitted {
		return nil, fmt.Errorf("%w: %d invalid field(s)", ErrNotSubmitted, len(result.Errors))
	}

	values := map[string]any(submitted)
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field config.FieldSpec, prefill any) error {
	current := prefill
	for attempt := 1; ; attempt++ {
		value, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if err := f.Change(field.Name, value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if err := f.Blur(field.Name); err != nil {
			return fmt.Errorf("tui: %w", err)
		}

		msg := f.Error(field.Name)
		if msg == "" {
			return nil
		}
		if err := r.driver.Info(ctx, r.errorLine(field, msg)); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: field %q", ErrTooManyAttempts, field.Name)
		}
		current = value
	}
}

func (r *Renderer) ask(ctx context.Context, field config.FieldSpec, current any) (any, error) {
	message := r.theme.PromptPrefix + field.DisplayLabel()
	help := plainText(field.Description)

	switch field.Type {
	case config.FieldTypePassword:
		return r.driver.Password(ctx, InputConfig{Message: message, Help: help})

	case config.FieldTypeCheckbox:
		checked, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: help})

	case config.FieldTypeSelect, config.FieldTypeRadio:
		return r.askChoice(ctx, field, message, help, stringValue(current))

	case config.FieldTypeFile:
		for {
			path, err := r.driver.Input(ctx, InputConfig{
				Message:     message,
				Help:        help,
				Placeholder: "path to file",
			})
			if err != nil {
				return nil, err
			}
			path = strings.TrimSpace(path)
			if path == "" {
				return "", nil
			}
			if r.fileCheck != nil {
				if err := r.fileCheck(path); err != nil {
					if infoErr := r.driver.Info(ctx, r.errorLine(field, err.Error())); infoErr != nil {
						return nil, infoErr
					}
					continue
				}
			}
			return filepath.Base(path), nil
		}

	default:
		return r.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     stringValue(current),
			Help:        help,
			Placeholder: field.Placeholder,
		})
	}
}

func (r *Renderer) askChoice(ctx context.Context, field config.FieldSpec, message, help, current string) (string, error) {
	choices := append([]string(nil), field.Options...)
	offset := 0
	if !field.Validation.Required {
		choices = append([]string{SkipOption}, choices...)
		offset = 1
	}

	defaultIndex := 0
	for idx, option := range field.Options {
		if option == current {
			defaultIndex = idx + offset
			break
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      choices,
		DefaultIndex: defaultIndex,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < offset || idx >= len(choices) {
		return "", nil
	}
	return choices[idx], nil
}

func (r *Renderer) errorLine(field config.FieldSpec, msg string) string {
	return fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.DisplayLabel(), msg)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

var plainTextPolicy = bluemonday.StrictPolicy()

// plainText strips markup from a description so it can be shown as prompt
// help.
func plainText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(raw)))
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for _, key := range sortedKeys(values) {
		flattened.Set(key, fmt.Sprint(values[key]))
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}
