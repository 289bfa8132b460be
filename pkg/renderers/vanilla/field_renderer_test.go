package vanilla

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla/components"
)

func TestBuildFieldView_SelectPlaceholderPolicy(t *testing.T) {
	field := config.FieldSpec{Name: "country", Type: config.FieldTypeSelect, Options: []string{"USA", "Canada"}}

	view := buildFieldView(field, render.RenderOptions{})
	if view.Value != "" || view.Placeholder != DefaultSelectPrompt {
		t.Fatalf("expected empty value with default prompt, got %+v", view)
	}
	for _, option := range view.Options {
		if option.Selected {
			t.Fatalf("no option may be selected while the value is empty")
		}
	}

	view = buildFieldView(field, render.RenderOptions{Values: map[string]any{"country": "Canada"}})
	want := []components.Option{
		{ID: "dynform-country-0", Value: "USA", Label: "USA"},
		{ID: "dynform-country-1", Value: "Canada", Label: "Canada", Selected: true},
	}
	if diff := cmp.Diff(want, view.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFieldView_Checkbox(t *testing.T) {
	field := config.FieldSpec{Name: "agree", Type: config.FieldTypeCheckbox}

	if buildFieldView(field, render.RenderOptions{}).Checked {
		t.Fatalf("checkbox defaults to unchecked")
	}
	if !buildFieldView(field, render.RenderOptions{Values: map[string]any{"agree": true}}).Checked {
		t.Fatalf("expected checked")
	}
}

func TestBuildFieldMarkup_ErrorSlot(t *testing.T) {
	field := config.FieldSpec{Name: "email address", Label: "Email", Type: config.FieldTypeText, Validation: config.Validation{Required: true}}
	options := render.RenderOptions{}.WithErrors(map[string]string{"email address": "This field is required"})

	view := buildFieldView(field, options)
	view.DescribedBy = describedBy(field.Name, true, view.Invalid)
	markup := buildFieldMarkup(view, components.NameInput, "<input>\n\n", "Help", options.FieldError(field.Name))

	for _, fragment := range []string{
		`<div class="dynform-field dynform-field--text dynform-field--invalid" data-component="input" data-field="email address">`,
		`<label for="dynform-email-address" id="dynform-email-address-label"`,
		"    <input>\n",
		`<small id="dynform-email-address-description" class="dynform-description">Help</small>`,
		`<p id="dynform-email-address-error" class="dynform-error" role="alert">This field is required</p>`,
	} {
		if !strings.Contains(markup, fragment) {
			t.Fatalf("expected %q in markup:\n%s", fragment, markup)
		}
	}
	if view.DescribedBy != "dynform-email-address-description dynform-email-address-error" {
		t.Fatalf("unexpected aria-describedby %q", view.DescribedBy)
	}
}

func TestSanitizeDescription(t *testing.T) {
	cases := map[string]string{
		"":                                        "",
		"plain":                                   "plain",
		"<em>ok</em><img src=x onerror=alert(1)>": "<em>ok</em>",
		"<div>block</div>":                        "block",
	}
	for input, want := range cases {
		if got := sanitizeDescription(input); got != want {
			t.Fatalf("sanitize %q: want %q, got %q", input, want, got)
		}
	}
}
