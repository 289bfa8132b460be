package vanilla_test

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynform/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderString(t *testing.T, renderer *vanilla.Renderer, cfg config.FormConfig, options render.RenderOptions) string {
	t.Helper()
	out, err := renderer.Render(context.Background(), cfg, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_SampleForm(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer identity %s %s", renderer.Name(), renderer.ContentType())
	}

	html := renderString(t, renderer, testsupport.SampleConfig(t), render.RenderOptions{})

	testsupport.AssertContains(t, html,
		"<!DOCTYPE html>",
		"<title>Dynamic Form</title>",
		`<form class="dynform-form" method="POST" enctype="multipart/form-data" novalidate>`,
		`<h1>Dynamic Form</h1>`,
		`<input type="text" id="dynform-username" name="username" class="dynform-input" value=""`,
		`placeholder="you@example.com"`,
		`<input type="password" id="dynform-password" name="password"`,
		`<select id="dynform-country" name="country"`,
		`<option value="" selected>Select an option</option>`,
		`<option value="Canada">Canada</option>`,
		`role="radiogroup" aria-labelledby="dynform-gender-label"`,
		`<input type="radio" id="dynform-gender-0" name="gender" value="Male">`,
		`<span id="dynform-gender-label" class="dynform-label">Gender`,
		`<input type="checkbox" id="dynform-newsletter" name="newsletter" value="on" class="dynform-checkbox">`,
		`<input type="file" id="dynform-resume" name="resume" class="dynform-file" aria-describedby="dynform-resume-description">`,
		`<small id="dynform-resume-description" class="dynform-description">PDF or <em>plain text</em>, one file.</small>`,
		`<label for="dynform-email" id="dynform-email-label" class="dynform-label">Email <span class="dynform-required" aria-hidden="true">*</span></label>`,
		`<button type="submit" class="dynform-submit">Submit</button>`,
		".dynform-form",
	)
	testsupport.AssertNotContains(t, html, "dynform-error\"", "aria-invalid")

	if strings.Index(html, `name="username"`) > strings.Index(html, `name="email"`) {
		t.Fatalf("fields must render in config order")
	}
}

func TestRenderer_BindsValuesAndErrors(t *testing.T) {
	cfg := config.FormConfig{
		Title:       "Contact",
		SubmitLabel: "Send",
		Fields: []config.FieldSpec{
			{Name: "email", Label: "Email", Type: config.FieldTypeText, Validation: config.Validation{Required: true}},
			{Name: "secret", Type: config.FieldTypePassword},
			{Name: "topic", Type: config.FieldTypeSelect, Options: []string{"Sales", "Support"}, Placeholder: "Pick a topic"},
			{Name: "plan", Type: config.FieldTypeRadio, Options: []string{"Free", "Pro"}},
			{Name: "agree", Type: config.FieldTypeCheckbox},
		},
	}
	options := render.RenderOptions{
		Action: "/submit",
		Values: map[string]any{
			"email":  `"><script>`,
			"secret": "hunter2",
			"topic":  "Support",
			"plan":   "Pro",
			"agree":  true,
		},
		FormErrors: []string{"Submission failed", "Submission failed"},
		Hidden:     []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	}.WithErrors(map[string]string{"email": "Invalid format"})

	html := renderString(t, newRenderer(t), cfg, options)

	testsupport.AssertContains(t, html,
		`<title>Contact</title>`,
		`action="/submit"`,
		`value="&quot;&gt;&lt;script&gt;"`,
		`aria-invalid="true" aria-describedby="dynform-email-error"`,
		`<p id="dynform-email-error" class="dynform-error" role="alert">Invalid format</p>`,
		`dynform-field--invalid`,
		`<option value="">Pick a topic</option>`,
		`<option value="Support" selected>Support</option>`,
		`value="Pro" checked>`,
		`class="dynform-checkbox" checked`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<li>Submission failed</li>`,
		`<button type="submit" class="dynform-submit">Send</button>`,
	)
	testsupport.AssertNotContains(t, html, "hunter2", "<script>", `enctype=`)
	if strings.Count(html, "<li>Submission failed</li>") != 1 {
		t.Fatalf("form errors must be deduplicated")
	}
}

func TestRenderer_SkipsUnknownTypesWithWarning(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := config.FormConfig{Fields: []config.FieldSpec{
		{Name: "when", Label: "When", Type: "date"},
		{Name: "name", Type: config.FieldTypeText},
	}}

	html := renderString(t, newRenderer(t, vanilla.WithLogger(logger), vanilla.WithFragment()), cfg, render.RenderOptions{})

	testsupport.AssertNotContains(t, html, "dynform-when", "When")
	testsupport.AssertContains(t, html, `id="dynform-name"`)
	testsupport.AssertContains(t, logs.String(), "unknown type", "field=when", "type=date")
}

func TestRenderer_SanitizesDescription(t *testing.T) {
	cfg := config.FormConfig{Fields: []config.FieldSpec{{
		Name:        "bio",
		Type:        config.FieldTypeText,
		Description: `<strong>Short</strong> bio<script>alert(1)</script> <a href="https://example.com" onclick="x()">help</a>`,
	}}}

	html := renderString(t, newRenderer(t, vanilla.WithFragment()), cfg, render.RenderOptions{})

	testsupport.AssertContains(t, html, "<strong>Short</strong> bio", `href="https://example.com"`, `rel="nofollow"`)
	testsupport.AssertNotContains(t, html, "<script>", "alert(1)", "onclick")
}

func TestRenderer_ThemeContext(t *testing.T) {
	cfg := config.FormConfig{Fields: []config.FieldSpec{{Name: "name", Type: config.FieldTypeText}}}
	options := render.RenderOptions{Theme: &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--dynform-accent": "#ff0000"},
		AssetURL: func(key string) string {
			if key == vanilla.StylesheetAssetKey {
				return "/assets/acme.css"
			}
			return ""
		},
	}}

	html := renderString(t, newRenderer(t), cfg, options)

	testsupport.AssertContains(t, html,
		`data-theme="acme" data-theme-variant="dark"`,
		`<link rel="stylesheet" href="/assets/acme.css">`,
		"--dynform-accent: #ff0000;",
	)
	testsupport.AssertNotContains(t, html, ".dynform-submit {")
}

func TestRenderer_ThemePartialsOverrideComponents(t *testing.T) {
	stub := newStubTemplates()
	renderer := newRenderer(t, vanilla.WithTemplateRenderer(stub), vanilla.WithFragment())

	cfg := config.FormConfig{Fields: []config.FieldSpec{
		{Name: "name", Type: config.FieldTypeText},
		{Name: "terms", Type: config.FieldTypeCheckbox},
	}}
	options := render.RenderOptions{Theme: &theme.RendererConfig{
		Partials: map[string]string{"forms.input": "themes/acme/input.tmpl"},
	}}
	if _, err := renderer.Render(context.Background(), cfg, options); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"themes/acme/input.tmpl", "templates/components/checkbox.tmpl", "templates/form.tmpl"} {
		if stub.calls[want] != 1 {
			t.Fatalf("expected %s rendered once, got calls %v", want, stub.calls)
		}
	}
	if stub.calls["templates/components/input.tmpl"] != 0 {
		t.Fatalf("default input template must be replaced by the partial")
	}
}

func TestRenderer_ComponentOverrides(t *testing.T) {
	stub := newStubTemplates()
	renderer := newRenderer(t,
		vanilla.WithTemplateRenderer(stub),
		vanilla.WithFragment(),
		vanilla.WithComponentOverrides(map[string]string{"nick": "select"}),
	)

	cfg := config.FormConfig{Fields: []config.FieldSpec{{Name: "nick", Type: config.FieldTypeText}}}
	if _, err := renderer.Render(context.Background(), cfg, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if stub.calls["templates/components/select.tmpl"] != 1 {
		t.Fatalf("expected override component, got calls %v", stub.calls)
	}

	renderer = newRenderer(t, vanilla.WithTemplateRenderer(stub), vanilla.WithComponentOverrides(map[string]string{"nick": "missing"}))
	if _, err := renderer.Render(context.Background(), cfg, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for unregistered component")
	}
}

func TestRenderer_RenderSuccess(t *testing.T) {
	out, err := newRenderer(t).RenderSuccess(context.Background(), config.FormConfig{Title: "Signup"}, "abc-123", render.RenderOptions{})
	if err != nil {
		t.Fatalf("render success: %v", err)
	}
	testsupport.AssertContains(t, string(out), "<title>Signup</title>", "<h1>Signup</h1>", "<code>abc-123</code>", `href="./"`)
}

func TestRenderer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRenderer(t).Render(ctx, config.FormConfig{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestAssetsFSIncludesStylesheet(t *testing.T) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".dynform-field") {
		t.Fatalf("expected stylesheet to style fields")
	}
}
