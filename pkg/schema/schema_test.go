package schema

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/config"
)

func TestBuild_CompilesRulesInConfigOrder(t *testing.T) {
	cfg := config.FormConfig{Fields: []config.FieldSpec{
		{Name: "email", Type: config.FieldTypeText, Validation: config.Validation{Required: true, Regex: "^.+@.+$"}},
		{Name: "when", Type: "date"},
		{Name: "terms", Type: config.FieldTypeCheckbox},
	}}

	set, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if diff := cmp.Diff([]string{"email", "terms"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	rule, ok := set.Rule("email")
	if !ok {
		t.Fatalf("expected email rule")
	}
	if !rule.Required || rule.Pattern == nil {
		t.Fatalf("expected required + pattern, got %+v", rule)
	}
	if _, ok := set.Rule("when"); ok {
		t.Fatalf("unknown field types should not get a rule")
	}
}

func TestBuild_InvalidRegexIsConfigError(t *testing.T) {
	cfg := config.FormConfig{Fields: []config.FieldSpec{
		{Name: "code", Type: config.FieldTypeText, Validation: config.Validation{Regex: "([a-z"}},
	}}

	_, err := Build(cfg)
	if err == nil {
		t.Fatalf("expected error for malformed regex")
	}
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.ConfigError, got %T", err)
	}
	if cfgErr.Field != "code" {
		t.Fatalf("expected field code, got %q", cfgErr.Field)
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected errors.Is(err, ErrInvalidConfig)")
	}
}

func TestBuild_ChecksStructure(t *testing.T) {
	cases := map[string]config.FormConfig{
		"select without options": {Fields: []config.FieldSpec{{Name: "plan", Type: config.FieldTypeSelect}}},
		"radio without options":  {Fields: []config.FieldSpec{{Name: "plan", Type: config.FieldTypeRadio}}},
		"duplicate name": {Fields: []config.FieldSpec{
			{Name: "plan", Type: config.FieldTypeText},
			{Name: "plan", Type: config.FieldTypeCheckbox},
		}},
	}
	for name, cfg := range cases {
		_, err := Build(cfg)
		var cfgErr *config.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Field != "plan" {
			t.Fatalf("%s: expected config error for plan, got %v", name, err)
		}
	}
}

func TestRule_Check(t *testing.T) {
	email := Rule{Required: true, Pattern: mustCompile(t, "^.+@.+$")}
	optionalPattern := Rule{Pattern: mustCompile(t, "^[0-9]+$")}
	requiredBox := Rule{Type: config.FieldTypeCheckbox, Required: true}
	optionalBox := Rule{Type: config.FieldTypeCheckbox}

	cases := []struct {
		name    string
		rule    Rule
		value   any
		present bool
		want    string
	}{
		{"required absent", email, nil, false, MessageRequired},
		{"required empty", email, "", true, MessageRequired},
		{"pattern mismatch", email, "abc", true, MessageInvalidFormat},
		{"pattern match", email, "a@b.com", true, ""},
		{"optional pattern skips empty", optionalPattern, "", true, ""},
		{"optional pattern skips absent", optionalPattern, nil, false, ""},
		{"optional pattern mismatch", optionalPattern, "4a", true, MessageInvalidFormat},
		{"optional pattern match", optionalPattern, "42", true, ""},
		{"required checkbox unchecked", requiredBox, false, true, MessageRequired},
		{"required checkbox checked", requiredBox, true, true, ""},
		{"optional checkbox unchecked", optionalBox, false, true, ""},
	}

	for _, tc := range cases {
		if got := tc.rule.Check(tc.value, tc.present); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRuleSet_ValidateIsIdempotent(t *testing.T) {
	set := MustBuild(config.FormConfig{Fields: []config.FieldSpec{
		{Name: "email", Type: config.FieldTypeText, Validation: config.Validation{Required: true, Regex: "^.+@.+$"}},
		{Name: "nick", Type: config.FieldTypeText},
	}})

	values := map[string]any{"email": "a@b.com", "nick": ""}
	for i := 0; i < 3; i++ {
		errs := set.Validate(values)
		if errs == nil || len(errs) != 0 {
			t.Fatalf("run %d: expected empty, non-nil errors, got %#v", i, errs)
		}
	}

	errs := set.Validate(map[string]any{})
	if diff := cmp.Diff(map[string]string{"email": MessageRequired}, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func mustCompile(t *testing.T, expr string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(expr)
	if err != nil {
		t.Fatalf("compile %q: %v", expr, err)
	}
	return re
}
