package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("config: invalid form config")

// ConfigError reports a malformed FieldSpec. It is fatal to mounting a form.
type ConfigError struct {
	// Field is the offending field name, or its index when the name is empty.
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "config: field " + fmt.Sprintf("%q", e.Field) + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError builds a ConfigError; err may be nil.
func NewConfigError(field, reason string, err error) *ConfigError {
	return &ConfigError{Field: field, Reason: reason, Err: err}
}
