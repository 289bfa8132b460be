package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, config.FormConfig, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("vanilla"))
	reg.MustRegister(namedRenderer("tui"))

	if err := reg.Register(namedRenderer("tui")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}

	if diff := cmp.Diff([]string{"tui", "vanilla"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	got, err := reg.Get("vanilla")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("get vanilla: %v %v", got, err)
	}
	if _, err := reg.Get("preact"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !reg.Has("tui") || reg.Has("preact") {
		t.Fatalf("has mismatch")
	}
}

func TestRenderOptions_Errors(t *testing.T) {
	opts := render.RenderOptions{}.WithErrors(map[string]string{"email": "Invalid format"})
	if got := opts.FieldError("email"); got != "Invalid format" {
		t.Fatalf("unexpected field error %q", got)
	}
	if got := opts.FieldError("name"); got != "" {
		t.Fatalf("expected empty error, got %q", got)
	}
	if cleared := opts.WithErrors(nil); cleared.Errors != nil {
		t.Fatalf("expected cleared errors")
	}
}
