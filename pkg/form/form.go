package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/schema"
)

var (
	// ErrUnknownField is returned for names the config does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrInvalidValue is returned when a value has the wrong kind for its
	// field (bool for checkboxes, string otherwise).
	ErrInvalidValue = errors.New("form: invalid value")
	// ErrNoSubmitHandler is returned by Submit when validation passed but no
	// handler is configured.
	ErrNoSubmitHandler = errors.New("form: submit handler is nil")
)

// SubmitHandler receives the validated values. It is the form's only external
// collaborator.
type SubmitHandler func(ctx context.Context, values Values) error

// Option configures a Form.
type Option func(*Form)

// WithSubmitHandler sets the handler invoked after a successful submit.
func WithSubmitHandler(handler SubmitHandler) Option {
	return func(f *Form) {
		f.onSubmit = handler
	}
}

// WithRules reuses a prebuilt RuleSet instead of compiling one from the config.
// The set must have been built from the same config.
func WithRules(rules schema.RuleSet) Option {
	return func(f *Form) {
		f.rules = rules
		f.rulesSet = true
	}
}

// WithRetainOnSuccess keeps the submitted values instead of resetting to
// defaults after a successful submit.
func WithRetainOnSuccess() Option {
	return func(f *Form) {
		f.retainOnSuccess = true
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form is the controller for one mounted form. It owns its values and errors
// and is meant to be driven from a single goroutine; it takes no locks.
type Form struct {
	cfg             config.FormConfig
	rules           schema.RuleSet
	rulesSet        bool
	onSubmit        SubmitHandler
	retainOnSuccess bool
	logger          *slog.Logger

	state   State
	values  Values
	errors  Errors
	touched map[string]bool
}

// New mounts a form for cfg. Rule compilation errors are returned as
// *config.ConfigError and nothing is mounted.
func New(cfg config.FormConfig, options ...Option) (*Form, error) {
	f := &Form{
		cfg:    cfg.Clone(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	if !f.rulesSet {
		rules, err := schema.Build(f.cfg)
		if err != nil {
			return nil, err
		}
		f.rules = rules
	}

	f.Reset()
	return f, nil
}

// Config returns a copy of the form's config.
func (f *Form) Config() config.FormConfig {
	return f.cfg.Clone()
}

// Rules returns the compiled rule set.
func (f *Form) Rules() schema.RuleSet {
	return f.rules
}

// State reports the current lifecycle state.
func (f *Form) State() State {
	return f.state
}

// Values returns a copy of the current values.
func (f *Form) Values() Values {
	return f.values.Clone()
}

// Errors returns a copy of the current validation errors.
func (f *Form) Errors() Errors {
	return f.errors.Clone()
}

// Error returns the current message for a field, "" when it has none.
func (f *Form) Error(name string) string {
	return f.errors[name]
}

// Touched reports whether a field has been blurred.
func (f *Form) Touched(name string) bool {
	return f.touched[name]
}

// Reset restores default values, clears errors and returns to Pristine.
func (f *Form) Reset() {
	f.values = DefaultValues(f.cfg)
	f.errors = make(Errors)
	f.touched = make(map[string]bool)
	f.state = Pristine
}

// DefaultValues returns the mount-time values for cfg. Fields of unknown type
// are left out.
func DefaultValues(cfg config.FormConfig) Values {
	values := make(Values, len(cfg.Fields))
	for _, field := range cfg.Fields {
		if !field.Type.Known() {
			continue
		}
		values[field.Name] = field.DefaultValue()
	}
	return values
}

// Change updates one field and revalidates only that field.
func (f *Form) Change(name string, value any) error {
	field, err := f.field(name)
	if err != nil {
		return err
	}
	if err := checkKind(field, value); err != nil {
		return err
	}

	f.values[name] = value
	f.revalidate(name)
	f.state = Editing
	return nil
}

// Blur marks a field touched and revalidates it. The state is unchanged.
func (f *Form) Blur(name string) error {
	if _, err := f.field(name); err != nil {
		return err
	}
	f.touched[name] = true
	f.revalidate(name)
	return nil
}

// Fill applies several changes at once, in config order. Names that are not in
// the config are rejected before anything is written.
func (f *Form) Fill(values map[string]any) error {
	for name, value := range values {
		field, err := f.field(name)
		if err != nil {
			return err
		}
		if err := checkKind(field, value); err != nil {
			return err
		}
	}
	for _, name := range f.rules.Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := f.Change(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Validate evaluates every rule against the current values without touching
// state or the stored errors.
func (f *Form) Validate() Errors {
	return Errors(f.rules.Validate(f.values))
}

// Submit evaluates every rule. When all pass the handler receives a copy of the
// values and the form resets to defaults; otherwise errors are stored for
// every failing field, the values are kept and the handler is not called.
// A handler error is returned wrapped and the form stays Valid.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("form: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	f.state = Validating
	errs := f.Validate()
	submitted := f.values.Clone()

	if len(errs) > 0 {
		f.errors = errs
		f.state = Invalid
		f.logger.Debug("form submit rejected", "errors", len(errs))
		return Result{State: Invalid, Values: submitted, Errors: errs.Clone()}, nil
	}

	f.errors = make(Errors)
	f.state = Valid

	if f.onSubmit == nil {
		return Result{State: Valid, Values: submitted, Errors: Errors{}}, ErrNoSubmitHandler
	}
	if err := f.onSubmit(ctx, submitted.Clone()); err != nil {
		return Result{State: Valid, Values: submitted, Errors: Errors{}}, fmt.Errorf("form: submit handler: %w", err)
	}

	f.logger.Debug("form submitted", "fields", len(submitted))
	if f.retainOnSuccess {
		return Result{State: Valid, Submitted: true, Values: submitted, Errors: Errors{}}, nil
	}

	f.Reset()
	return Result{State: Pristine, Submitted: true, Values: submitted, Errors: Errors{}}, nil
}

func (f *Form) field(name string) (config.FieldSpec, error) {
	if _, ok := f.rules.Rule(name); !ok {
		return config.FieldSpec{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	field, _ := f.cfg.Field(name)
	return field, nil
}

func (f *Form) revalidate(name string) {
	if msg := f.rules.ValidateField(name, f.values); msg != "" {
		f.errors[name] = msg
		return
	}
	delete(f.errors, name)
}

func checkKind(field config.FieldSpec, value any) error {
	switch value.(type) {
	case bool:
		if field.Type == config.FieldTypeCheckbox {
			return nil
		}
	case string:
		if field.Type != config.FieldTypeCheckbox {
			return nil
		}
	}
	return fmt.Errorf("%w: field %q (%s) does not accept %T", ErrInvalidValue, field.Name, field.Type, value)
}
