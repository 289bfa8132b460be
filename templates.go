package dynform

import (
	"io/fs"

	vanilla "github.com/goliatone/go-dynform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the vanilla stylesheet for mounting under a static
// route.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
