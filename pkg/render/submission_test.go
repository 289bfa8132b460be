package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/render"
)

func TestSortedHiddenFields(t *testing.T) {
	sorted := render.SortedHiddenFields(
		render.Hidden("version", 4),
		render.CSRFToken("_csrf", "old"),
		render.Hidden("  ", "skip"),
		render.CSRFToken(" _csrf ", "token123"),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}

	if got := render.SortedHiddenFields(render.Hidden("", "x")); got != nil {
		t.Fatalf("expected nil for only-empty names, got %#v", got)
	}
}
