// Package schema compiles the validation rules declared in a FormConfig into a
// read-only RuleSet.
package schema

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-dynform/pkg/config"
)

const (
	MessageRequired      = "This field is required"
	MessageInvalidFormat = "Invalid format"
)

// Rule is the compiled check for one field. The required check runs before
// the pattern check; the first failure wins. An empty value on an optional
// field is not matched against the pattern.
type Rule struct {
	Field    string
	Type     config.FieldType
	Required bool
	Pattern  *regexp.Regexp
}

// Check validates a value and returns the error message, or "" when the value
// passes. present=false means the field has no value at all.
func (r Rule) Check(value any, present bool) string {
	if isEmpty(value, present) {
		if r.Required {
			return MessageRequired
		}
		return ""
	}
	if r.Pattern != nil && !r.Pattern.MatchString(stringify(value, present)) {
		return MessageInvalidFormat
	}
	return ""
}

// RuleSet maps field names to their compiled rules. Fields of unknown type are
// not part of the set.
type RuleSet struct {
	order []string
	rules map[string]Rule
}

// Build checks cfg and compiles it into a RuleSet. A structural problem
// (missing or duplicate name, a choice field without options) or a malformed
// regex fails the whole build with a *config.ConfigError.
func Build(cfg config.FormConfig) (RuleSet, error) {
	if err := config.Check(cfg); err != nil {
		return RuleSet{}, err
	}

	set := RuleSet{
		order: make([]string, 0, len(cfg.Fields)),
		rules: make(map[string]Rule, len(cfg.Fields)),
	}

	for _, field := range cfg.Fields {
		if !field.Type.Known() {
			continue
		}
		rule := Rule{
			Field:    field.Name,
			Type:     field.Type,
			Required: field.Validation.Required,
		}
		if expr := field.Validation.Regex; expr != "" {
			re, err := regexp.Compile(expr)
			if err != nil {
				return RuleSet{}, config.NewConfigError(field.Name, fmt.Sprintf("invalid regex %q", expr), err)
			}
			rule.Pattern = re
		}
		set.order = append(set.order, field.Name)
		set.rules[field.Name] = rule
	}

	return set, nil
}

// MustBuild panics when Build fails. Useful for embedded configs.
func MustBuild(cfg config.FormConfig) RuleSet {
	set, err := Build(cfg)
	if err != nil {
		panic(err)
	}
	return set
}

// Rule returns the rule for a field.
func (s RuleSet) Rule(name string) (Rule, bool) {
	rule, ok := s.rules[name]
	return rule, ok
}

// Names returns the ruled field names in config order.
func (s RuleSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of ruled fields.
func (s RuleSet) Len() int {
	return len(s.order)
}

// ValidateField checks a single field against values. Unknown names pass.
func (s RuleSet) ValidateField(name string, values map[string]any) string {
	rule, ok := s.rules[name]
	if !ok {
		return ""
	}
	value, present := values[name]
	return rule.Check(value, present)
}

// Validate checks every field and returns the failing ones. The map is empty,
// never nil, when everything passes.
func (s RuleSet) Validate(values map[string]any) map[string]string {
	out := make(map[string]string)
	for _, name := range s.order {
		if msg := s.ValidateField(name, values); msg != "" {
			out[name] = msg
		}
	}
	return out
}

func isEmpty(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	default:
		return fmt.Sprint(v) == ""
	}
}

func stringify(value any, present bool) string {
	if !present || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}
