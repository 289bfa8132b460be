package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned by ManifestSelector for unknown theme names.
var ErrThemeNotFound = errors.New("orchestrator: theme not found")

// ManifestSelector is a theme.ThemeSelector over an in-memory set of
// manifests. An empty name selects the first manifest by name; an unknown
// variant falls back to the base manifest.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
}

// NewManifestSelector registers manifests by their Name.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		name := strings.TrimSpace(manifest.Name)
		if name == "" {
			return nil, errors.New("orchestrator: theme manifest name is required")
		}
		if _, exists := s.manifests[name]; exists {
			return nil, fmt.Errorf("orchestrator: duplicate theme %q", name)
		}
		s.manifests[name] = manifest
	}
	return s, nil
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s == nil || len(s.manifests) == 0 {
		return nil, ErrThemeNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		names := make([]string, 0, len(s.manifests))
		for key := range s.manifests {
			names = append(names, key)
		}
		sort.Strings(names)
		name = names[0]
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// LoadManifest reads a JSON theme manifest from disk.
func LoadManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read theme manifest %s: %w", path, err)
	}
	var manifest theme.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("orchestrator: parse theme manifest %s: %w", path, err)
	}
	return &manifest, nil
}
