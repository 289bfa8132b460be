package form

// State is the controller's lifecycle position.
type State int

const (
	// Pristine: no field changed and no submit attempted since mount or reset.
	Pristine State = iota
	// Editing: at least one field changed.
	Editing
	// Validating: a submit is evaluating every rule.
	Validating
	// Valid: the last submit passed every rule.
	Valid
	// Invalid: the last submit failed at least one rule.
	Invalid
)

func (s State) String() string {
	switch s {
	case Pristine:
		return "pristine"
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Values maps field names to their current value: string for most types, bool
// for checkboxes.
type Values map[string]any

// Clone returns a shallow copy; values are strings or bools so that is enough.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// String returns the value for name as a string, "" when missing or not a
// string.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Bool returns the value for name as a bool.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Errors maps field names to their current validation message.
type Errors map[string]string

// Clone returns a copy of the error map.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}

// Lists converts to the []string shape render.RenderOptions uses.
func (e Errors) Lists() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for key, value := range e {
		out[key] = []string{value}
	}
	return out
}

// Result describes the outcome of a submit attempt.
type Result struct {
	// State after the submit: Valid, Invalid, or Pristine when a successful
	// submit reset the form.
	State State
	// Submitted is true when the handler was invoked and returned nil.
	Submitted bool
	// Values holds the submitted (or rejected) values.
	Values Values
	// Errors is empty on success.
	Errors Errors
}
