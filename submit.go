package dynform

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	applog "github.com/goliatone/go-dynform/internal/logger"
	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/form"
)

// NewForm mounts a controller for cfg. Without a submit handler the default
// logging handler is used.
func NewForm(cfg FormConfig, options ...form.Option) (*form.Form, error) {
	return form.New(cfg, append([]form.Option{form.WithSubmitHandler(DefaultSubmitHandler(nil, cfg))}, options...)...)
}

// DefaultSubmitHandler logs every submission with its id. The id comes from
// the context when the caller set one, otherwise a fresh uuid is generated.
// Password values are masked. A nil logger means the request logger carried
// by ctx, falling back to the process logger.
func DefaultSubmitHandler(logger *slog.Logger, cfg FormConfig) form.SubmitHandler {
	masked := make(map[string]bool)
	for _, field := range cfg.Fields {
		if field.Type == config.FieldTypePassword {
			masked[field.Name] = true
		}
	}

	return func(ctx context.Context, values form.Values) error {
		id, ok := form.SubmissionIDFromContext(ctx)
		if !ok {
			id = uuid.NewString()
		}

		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)

		attrs := make([]any, 0, len(names))
		for _, name := range names {
			value := values[name]
			if masked[name] {
				value = "********"
			}
			attrs = append(attrs, slog.Any(name, value))
		}

		log := logger
		if log == nil {
			log = applog.FromContext(ctx)
		}
		log.InfoContext(ctx, "form submitted",
			slog.String("submission_id", id),
			slog.Group("values", attrs...),
		)
		return nil
	}
}
