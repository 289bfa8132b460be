package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/config"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST ")
	if !ok {
		t.Fatalf("descriptor not found")
	}

	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}

	if err := reg.Register("broken", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field Field, data ComponentData) error { return nil }

	reg.MustRegister("input", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/input.css"},
		Scripts: []Script{
			{Src: "/shared.js"},
		},
	})
	reg.MustRegister("select", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/select.css"},
		Scripts: []Script{
			{Src: "/shared.js"},
			{Src: "/select.js"},
		},
	})

	styles, scripts := reg.Assets([]string{"input", "select"})
	if diff := cmp.Diff([]string{"/shared.css", "/input.css", "/select.css"}, styles); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 unique scripts, got %d: %v", len(scripts), scripts)
	}
}

func TestDefaultRegistryCoversEveryKnownType(t *testing.T) {
	reg := NewDefaultRegistry()
	types := []config.FieldType{
		config.FieldTypeText,
		config.FieldTypePassword,
		config.FieldTypeSelect,
		config.FieldTypeRadio,
		config.FieldTypeCheckbox,
		config.FieldTypeFile,
	}
	for _, fieldType := range types {
		name := ForType(fieldType)
		if _, ok := reg.Descriptor(name); !ok {
			t.Fatalf("no component registered for %s (%q)", fieldType, name)
		}
	}
	if ForType("date") != "" {
		t.Fatalf("unknown types must not resolve to a component")
	}
}

func TestTemplateComponentRendererUsesPartials(t *testing.T) {
	stub := &recordingTemplates{}
	reg := NewDefaultRegistry()
	desc, _ := reg.Descriptor(NameSelect)

	var buf bytes.Buffer
	err := desc.Renderer(&buf, Field{Name: "country"}, ComponentData{
		Template: stub,
		Partials: map[string]string{PartialSelect: "themes/acme/select.tmpl"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stub.last != "themes/acme/select.tmpl" {
		t.Fatalf("expected partial override, got %q", stub.last)
	}

	buf.Reset()
	if err := desc.Renderer(&buf, Field{Name: "country"}, ComponentData{Template: stub}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if stub.last != "templates/components/select.tmpl" {
		t.Fatalf("expected default template, got %q", stub.last)
	}
	if buf.String() != "<rendered>" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := desc.Renderer(&buf, Field{}, ComponentData{}); err == nil {
		t.Fatalf("expected error without template renderer")
	}
}

type recordingTemplates struct {
	last string
}

func (r *recordingTemplates) RenderTemplate(name string, _ any) (string, error) {
	r.last = name
	return "<rendered>", nil
}
