package openapi

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/config"
)

func signupConfig() config.FormConfig {
	return config.FormConfig{
		Title: "Sign up",
		Fields: []config.FieldSpec{
			{Name: "email", Label: "Email", Type: config.FieldTypeText, Validation: config.Validation{Required: true, Regex: "^.+@.+$"}},
			{Name: "secret", Type: config.FieldTypePassword},
			{Name: "plan", Type: config.FieldTypeSelect, Options: []string{"free", "pro"}},
			{Name: "size", Type: config.FieldTypeRadio, Options: []string{"S", "M"}, Validation: config.Validation{Required: true}},
			{Name: "terms", Type: config.FieldTypeCheckbox, Validation: config.Validation{Required: true}},
			{Name: "when", Type: "date"},
		},
	}
}

func TestBuild_ValidDocument(t *testing.T) {
	doc, err := Build(signupConfig(), WithPath("/signup"), WithServer("http://localhost:8080"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := doc.Validate(context.Background(), openapi3.DisableExamplesValidation()); err != nil {
		t.Fatalf("validate: %v", err)
	}

	item := doc.Paths.Find("/signup")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /signup")
	}
	if item.Post.RequestBody.Value.Content.Get(contentFormURLEncoded) == nil {
		t.Fatalf("expected urlencoded body without file fields")
	}
	if item.Post.Responses.Status(422) == nil {
		t.Fatalf("expected 422 response")
	}

	schema := doc.Components.Schemas[SchemaName].Value
	if diff := cmp.Diff([]string{"email", "size", "terms"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if _, ok := schema.Properties["when"]; ok {
		t.Fatalf("unknown field types must be left out")
	}
	if diff := cmp.Diff([]any{"", "free", "pro"}, schema.Properties["plan"].Value.Enum); diff != "" {
		t.Fatalf("optional enum mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"S", "M"}, schema.Properties["size"].Value.Enum); diff != "" {
		t.Fatalf("required enum mismatch (-want +got):\n%s", diff)
	}
	if got := schema.Properties["email"].Value.Pattern; got != "^.+@.+$" {
		t.Fatalf("expected pattern, got %q", got)
	}
}

func TestBuild_FileFieldUsesMultipart(t *testing.T) {
	cfg := config.FormConfig{Fields: []config.FieldSpec{{Name: "avatar", Type: config.FieldTypeFile}}}
	doc, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	body := doc.Paths.Find("/").Post.RequestBody.Value
	if body.Content.Get(contentFormURLEncoded) != nil {
		t.Fatalf("file forms must not advertise urlencoded bodies")
	}
	media := body.Content.Get(contentMultipart)
	if media == nil {
		t.Fatalf("expected multipart body")
	}
	if got := media.Schema.Value.Properties["avatar"].Value.Format; got != "binary" {
		t.Fatalf("expected binary format, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cfg := signupConfig()
	doc, err := Build(cfg, WithPath("/signup"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := FormConfig(parsed, "/signup")
	if err != nil {
		t.Fatalf("form config: %v", err)
	}

	want := cfg.Clone()
	want.Fields = want.Fields[:len(want.Fields)-1]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormConfig_InfersTypesWithoutExtensions(t *testing.T) {
	raw := `{
  "openapi": "3.0.3",
  "info": {"title": "Plain", "version": "1"},
  "paths": {
    "/": {
      "post": {
        "requestBody": {
          "content": {
            "application/x-www-form-urlencoded": {
              "schema": {
                "type": "object",
                "required": ["name"],
                "properties": {
                  "name": {"type": "string"},
                  "agree": {"type": "boolean"},
                  "color": {"type": "string", "enum": ["red", "blue"]},
                  "upload": {"type": "string", "format": "binary"}
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`
	doc, err := Parse(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := FormConfig(doc, "/")
	if err != nil {
		t.Fatalf("form config: %v", err)
	}

	want := []config.FieldSpec{
		{Name: "agree", Type: config.FieldTypeCheckbox},
		{Name: "color", Type: config.FieldTypeSelect, Options: []string{"red", "blue"}},
		{Name: "name", Type: config.FieldTypeText, Validation: config.Validation{Required: true}},
		{Name: "upload", Type: config.FieldTypeFile},
	}
	if diff := cmp.Diff(want, cfg.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := Parse(context.Background(), []byte(`{"openapi": "3.0.3"}`)); err == nil || !strings.Contains(err.Error(), "openapi:") {
		t.Fatalf("expected prefixed validation error, got %v", err)
	}

	doc, err := Build(signupConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := FormConfig(doc, "/missing"); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
