package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-dynform/pkg/config"
)

const (
	// SchemaName is the component name of the submission schema.
	SchemaName = "Submission"

	extensionType  = "x-dynform-type"
	extensionOrder = "x-dynform-order"

	contentFormURLEncoded = "application/x-www-form-urlencoded"
	contentMultipart      = "multipart/form-data"
	contentHTML           = "text/html"
)

// Option configures document generation.
type Option func(*options)

type options struct {
	path        string
	version     string
	operationID string
	servers     []string
}

// WithPath sets the path the form posts to. Defaults to "/".
func WithPath(path string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			o.path = trimmed
		}
	}
}

// WithVersion sets info.version. Defaults to "1.0.0".
func WithVersion(version string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			o.version = trimmed
		}
	}
}

// WithOperationID sets the operationId of the submit operation.
func WithOperationID(id string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			o.operationID = trimmed
		}
	}
}

// WithServer appends a server URL.
func WithServer(url string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			o.servers = append(o.servers, trimmed)
		}
	}
}

// Build returns an OpenAPI document with a single POST operation whose request
// body is the form's submission schema. Fields of unknown type are left out.
func Build(cfg config.FormConfig, opts ...Option) (*openapi3.T, error) {
	o := options{path: "/", version: "1.0.0", operationID: "submitForm"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	schema, err := SubmissionSchema(cfg)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = config.DefaultTitle
	}

	consumes := []string{contentFormURLEncoded, contentMultipart}
	if cfg.HasFileField() {
		consumes = []string{contentMultipart}
	}
	ref := "#/components/schemas/" + SchemaName

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithSchemaRef(openapi3.NewSchemaRef(ref, schema), consumes))

	page := openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{contentHTML})
	responses := openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission accepted").WithContent(page),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Validation failed; the form is returned with inline errors").WithContent(page),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: o.version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(o.path, &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: o.operationID,
				Summary:     "Submit " + title,
				RequestBody: &openapi3.RequestBodyRef{Value: body},
				Responses:   responses,
			},
		})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaName: openapi3.NewSchemaRef("", schema),
			},
		},
	}
	for _, url := range o.servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}
	return doc, nil
}

// SubmissionSchema returns the object schema of the submitted values.
func SubmissionSchema(cfg config.FormConfig) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	order := make([]any, 0, len(cfg.Fields))

	for _, field := range cfg.Fields {
		if !field.Type.Known() {
			continue
		}
		if strings.TrimSpace(field.Name) == "" {
			return nil, config.NewConfigError("", "name is required", nil)
		}
		property := fieldSchema(field)
		schema.WithProperty(field.Name, property)
		if field.Validation.Required {
			schema.Required = append(schema.Required, field.Name)
		}
		order = append(order, field.Name)
	}

	schema.Extensions = map[string]any{extensionOrder: order}
	return schema, nil
}

func fieldSchema(field config.FieldSpec) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case config.FieldTypeCheckbox:
		schema = openapi3.NewBoolSchema()
	case config.FieldTypeFile:
		schema = openapi3.NewStringSchema().WithFormat("binary")
	case config.FieldTypePassword:
		schema = openapi3.NewStringSchema().WithFormat("password")
	case config.FieldTypeSelect, config.FieldTypeRadio:
		values := make([]any, 0, len(field.Options)+1)
		if !field.Validation.Required {
			values = append(values, "")
		}
		for _, option := range field.Options {
			values = append(values, option)
		}
		schema = openapi3.NewStringSchema().WithEnum(values...)
	default:
		schema = openapi3.NewStringSchema()
	}

	if field.Validation.Required && field.Type != config.FieldTypeCheckbox {
		schema.WithMinLength(1)
	}
	if field.Validation.Regex != "" {
		schema.WithPattern(field.Validation.Regex)
	}
	if label := strings.TrimSpace(field.Label); label != "" {
		schema.Title = label
	}
	schema.Description = strings.TrimSpace(field.Description)
	schema.Extensions = map[string]any{extensionType: string(field.Type)}
	return schema
}

// Parse loads and validates an OpenAPI document.
func Parse(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// FormConfig derives a FormConfig from the request body of the POST operation
// at path. Properties become fields: booleans are checkboxes, enums are
// selects, binary strings are files and every other string is text unless an
// x-dynform-type extension says otherwise.
func FormConfig(doc *openapi3.T, path string) (config.FormConfig, error) {
	if doc == nil || doc.Paths == nil {
		return config.FormConfig{}, errors.New("openapi: document has no paths")
	}
	item := doc.Paths.Find(path)
	if item == nil || item.Post == nil {
		return config.FormConfig{}, fmt.Errorf("openapi: no POST operation at %q", path)
	}
	op := item.Post
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return config.FormConfig{}, fmt.Errorf("openapi: POST %s has no request body", path)
	}

	var schemaRef *openapi3.SchemaRef
	for _, contentType := range []string{contentFormURLEncoded, contentMultipart, "application/json"} {
		if media := op.RequestBody.Value.Content.Get(contentType); media != nil && media.Schema != nil {
			schemaRef = media.Schema
			break
		}
	}
	if schemaRef == nil || schemaRef.Value == nil {
		return config.FormConfig{}, fmt.Errorf("openapi: POST %s has no form schema", path)
	}
	schema := schemaRef.Value

	cfg := config.FormConfig{}
	if doc.Info != nil {
		cfg.Title = doc.Info.Title
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	for _, name := range propertyOrder(schema) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		cfg.Fields = append(cfg.Fields, fieldFromSchema(name, prop.Value, required[name]))
	}

	if err := config.Check(cfg); err != nil {
		return config.FormConfig{}, err
	}
	return cfg, nil
}

func fieldFromSchema(name string, schema *openapi3.Schema, required bool) config.FieldSpec {
	field := config.FieldSpec{
		Name:        name,
		Label:       schema.Title,
		Description: schema.Description,
		Validation: config.Validation{
			Required: required,
			Regex:    schema.Pattern,
		},
	}

	for _, value := range schema.Enum {
		s, ok := value.(string)
		if !ok || s == "" {
			continue
		}
		field.Options = append(field.Options, s)
	}

	switch {
	case extensionString(schema.Extensions, extensionType) != "":
		field.Type = config.FieldType(extensionString(schema.Extensions, extensionType))
	case schema.Type != nil && schema.Type.Is(openapi3.TypeBoolean):
		field.Type = config.FieldTypeCheckbox
	case schema.Format == "binary":
		field.Type = config.FieldTypeFile
	case schema.Format == "password":
		field.Type = config.FieldTypePassword
	case len(field.Options) > 0:
		field.Type = config.FieldTypeSelect
	default:
		field.Type = config.FieldTypeText
	}
	return field
}

// propertyOrder follows x-dynform-order when present and appends any
// remaining properties sorted by name.
func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string
	if raw, ok := schema.Extensions[extensionOrder].([]any); ok {
		for _, entry := range raw {
			name, ok := entry.(string)
			if !ok || seen[name] {
				continue
			}
			if _, exists := schema.Properties[name]; !exists {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func extensionString(extensions map[string]any, key string) string {
	value, _ := extensions[key].(string)
	return strings.TrimSpace(value)
}
