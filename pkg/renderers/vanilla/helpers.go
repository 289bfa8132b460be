package vanilla

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-dynform/pkg/renderers/vanilla/components"
)

const idPrefix = "dynform-"

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return idPrefix + sanitizeID(trimmed)
}

func componentLabelID(name string) string {
	controlID := componentControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-label"
}

func componentErrorID(name string) string {
	controlID := componentControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-error"
}

func componentDescriptionID(name string) string {
	controlID := componentControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-description"
}

func optionID(name string, index int) string {
	return componentControlID(name) + "-" + strconv.Itoa(index)
}

// sanitizeID keeps letters, digits, '-' and '_' and replaces everything else
// with '-'.
func sanitizeID(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// labelSupportsFor reports whether the component renders a single labelable
// control; radio groups are labelled through aria-labelledby instead.
func labelSupportsFor(componentName string) bool {
	return strings.TrimSpace(componentName) != components.NameRadio
}
