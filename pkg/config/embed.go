package config

import (
	"embed"
	"io/fs"
)

//go:embed sample/form.json
var embeddedSample embed.FS

// SampleFS exposes the bundled sample form config.
func SampleFS() fs.FS {
	return embeddedSample
}

// SamplePath is the name of the sample document inside SampleFS.
const SamplePath = "sample/form.json"

// Sample loads the bundled sample form config.
func Sample(opts ...Option) (FormConfig, error) {
	return LoadFS(embeddedSample, SamplePath, opts...)
}
