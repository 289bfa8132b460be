package orchestrator

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/config"
)

func TestJSONPresetTransformerFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.json": {Data: []byte(`{
  "title": "Join us",
  "fields": {
    "email": {"label": "Work email", "regex": "@acme\\.com$", "required": true},
    "plan": {"rename": "tier", "options": ["basic", "gold"]}
  }
}`)},
	}

	transformer, err := NewJSONPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	cfg := config.FormConfig{Title: "Old", SubmitLabel: "Go", Fields: []config.FieldSpec{
		{Name: "email", Type: config.FieldTypeText},
		{Name: "plan", Type: config.FieldTypeSelect, Options: []string{"free"}},
	}}
	if err := transformer.Transform(context.Background(), &cfg); err != nil {
		t.Fatalf("transform: %v", err)
	}

	want := config.FormConfig{Title: "Join us", SubmitLabel: "Go", Fields: []config.FieldSpec{
		{Name: "email", Label: "Work email", Type: config.FieldTypeText, Validation: config.Validation{Required: true, Regex: `@acme\.com$`}},
		{Name: "tier", Type: config.FieldTypeSelect, Options: []string{"basic", "gold"}},
	}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("transformed config mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONPresetTransformer_Errors(t *testing.T) {
	if _, err := NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := NewJSONPresetTransformer([]byte("{")); err == nil {
		t.Fatalf("expected parse error")
	}

	transformer, err := NewJSONPresetTransformer([]byte(`{"fields": {"missing": {"label": "x"}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	cfg := config.FormConfig{}
	if err := transformer.Transform(context.Background(), &cfg); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
