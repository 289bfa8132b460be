package server

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// decodeSubmission maps a urlencoded or multipart body onto field values. A
// checkbox is true when its name is present with any value but "off" or
// "false"; a file field holds the uploaded file name. Names the form does not
// declare are ignored.
func decodeSubmission(c echo.Context, cfg config.FormConfig, rules schema.RuleSet) (map[string]any, error) {
	var (
		params url.Values
		files  map[string][]*multipart.FileHeader
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("server: parse multipart body: %w", err)
		}
		params = url.Values(mf.Value)
		files = mf.File
	} else {
		values, err := c.FormParams()
		if err != nil {
			return nil, fmt.Errorf("server: parse form body: %w", err)
		}
		params = values
	}

	out := make(map[string]any, rules.Len())
	for _, name := range rules.Names() {
		field, _ := cfg.Field(name)
		switch field.Type {
		case config.FieldTypeCheckbox:
			out[name] = checked(params[name])
		case config.FieldTypeFile:
			out[name] = fileName(files[name], params.Get(name))
		default:
			out[name] = params.Get(name)
		}
	}
	return out, nil
}

func checked(values []string) bool {
	for _, value := range values {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "off", "false":
			continue
		default:
			return true
		}
	}
	return false
}

func fileName(headers []*multipart.FileHeader, fallback string) string {
	for _, header := range headers {
		if header != nil && header.Filename != "" {
			return header.Filename
		}
	}
	return fallback
}
