package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-dynform/pkg/config"
)

// PayloadError is returned by a submit handler whose downstream system
// rejected the values with per-field messages. Payload keys use the shapes
// MapErrorPayload understands.
type PayloadError struct {
	Payload map[string][]string
	Err     error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render: submission rejected (%d key(s)): %v", len(e.Payload), e.Err)
	}
	return fmt.Sprintf("render: submission rejected (%d key(s))", len(e.Payload))
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// ErrorMapping splits an error payload (for example one returned by a remote
// submission endpoint) into field-level and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// FieldErrors converts the field part of the mapping into the single-message
// shape the form controller uses, keeping the first message per field.
func (m ErrorMapping) FieldErrors() map[string]string {
	if len(m.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Fields))
	for name, messages := range m.Fields {
		if len(messages) > 0 {
			out[name] = messages[0]
		}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload sorts a rejection payload into field and form messages.
// Keys may be plain names, dotted paths or JSON pointers, optionally under a
// wrapper such as "body" or "data" ("/body/email", "data.email",
// "$.email[0]"). Keys that name no field land in Form.
func MapErrorPayload(form config.FormConfig, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	names := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		names[strings.TrimSpace(field.Name)] = struct{}{}
	}
	delete(names, "")

	for key, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		name, ok := fieldForKey(key, names)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], messages...))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// normalizeMessages trims messages and drops blanks and repeats, keeping the
// first occurrence order. It returns nil when nothing is left.
func normalizeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			continue
		}
		seen[message] = true
		out = append(out, message)
	}
	return out
}

var (
	wrapperSegments = map[string]bool{
		"body": true, "request": true, "payload": true,
		"data": true, "fields": true, "attributes": true,
	}
	formLevelKeys = map[string]bool{
		"": true, ".": true, "/": true, "#": true, "$": true,
		"form": true, "__all__": true, "non_field_errors": true, "non-field-errors": true,
	}
)

// fieldForKey resolves a payload key to a field name. Leading wrapper and
// index segments are skipped; the first remaining segment must name a field.
func fieldForKey(key string, names map[string]struct{}) (string, bool) {
	key = strings.TrimSpace(key)
	if formLevelKeys[strings.ToLower(key)] {
		return "", false
	}
	if _, ok := names[key]; ok {
		return key, true
	}

	for _, segment := range pathSegments(key) {
		if wrapperSegments[strings.ToLower(segment)] {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		_, ok := names[segment]
		return segment, ok
	}
	return "", false
}

// pathSegments splits "/a/b", "a.b", "$.a[0]" and "#/a~1b" style keys.
func pathSegments(key string) []string {
	parts := strings.FieldsFunc(strings.TrimLeft(key, "#/.$"), func(r rune) bool {
		return r == '.' || r == '/' || r == '[' || r == ']'
	})
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		out = append(out, strings.ReplaceAll(part, "~0", "~"))
	}
	return out
}
