package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	applog "github.com/goliatone/go-dynform/internal/logger"
	"github.com/goliatone/go-dynform/pkg/config"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/openapi"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// MessageSubmitFailed is shown above the form when the submit handler fails.
const MessageSubmitFailed = "Submission failed, please try again."

// Server serves one form. The config and rule set are shared across requests;
// every request gets its own form.Form.
type Server struct {
	echo     *echo.Echo
	cfg      config.FormConfig
	rules    schema.RuleSet
	opts     options
	document []byte
	logger   *slog.Logger
}

// New compiles cfg and registers the form, /openapi.json and /healthz routes.
func New(cfg config.FormConfig, opts ...Option) (*Server, error) {
	o := options{
		addr:   DefaultAddr,
		path:   DefaultPath,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	rules, err := schema.Build(cfg)
	if err != nil {
		return nil, err
	}

	if o.renderer == nil {
		renderer, err := vanilla.New(vanilla.WithLogger(o.logger))
		if err != nil {
			return nil, fmt.Errorf("server: default renderer: %w", err)
		}
		o.renderer = renderer
	}
	if o.handler == nil {
		return nil, errors.New("server: submit handler is required")
	}

	doc, err := openapi.Build(cfg, openapi.WithPath(o.path))
	if err != nil {
		return nil, fmt.Errorf("server: build openapi document: %w", err)
	}
	document, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("server: encode openapi document: %w", err)
	}

	s := &Server{
		echo:     echo.New(),
		cfg:      cfg.Clone(),
		rules:    rules,
		opts:     o,
		document: document,
		logger:   o.logger.With(slog.String("component", "server")),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	if s.opts.requestLogger {
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus: true,
			LogURI:    true,
			LogMethod: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				s.logger.Info("request",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
					slog.String("remote_ip", c.RealIP()),
				)
				return nil
			},
		}))
	}

	e.GET("/healthz", s.health)
	e.GET("/openapi.json", s.openAPI)
	if s.opts.assets != nil && s.opts.assetsPrefix != "" {
		e.StaticFS(s.opts.assetsPrefix, s.opts.assets)
	}

	var formRoutes []echo.MiddlewareFunc
	if s.opts.csrf {
		formRoutes = append(formRoutes, middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + CSRFFieldName,
			CookieName:     CSRFFieldName,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteStrictMode,
		}))
	}
	e.GET(s.opts.path, s.show, formRoutes...)
	e.POST(s.opts.path, s.submit, formRoutes...)
}

// Handler exposes the echo instance as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Echo returns the underlying echo instance for extra routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("serving form", slog.String("addr", s.opts.addr), slog.String("path", s.opts.path))
	if err := s.echo.Start(s.opts.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server using the given context.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) openAPI(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, s.document)
}

func (s *Server) show(c echo.Context) error {
	return s.page(c, http.StatusOK, s.renderOptions(c))
}

func (s *Server) submit(c echo.Context) error {
	ctx := c.Request().Context()

	values, err := decodeSubmission(c, s.cfg, s.rules)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := form.New(s.cfg,
		form.WithRules(s.rules),
		form.WithSubmitHandler(s.opts.handler),
		form.WithRetainOnSuccess(),
		form.WithLogger(s.logger),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := f.Fill(values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := uuid.NewString()
	reqLog := s.logger.With(slog.String("remote_ip", c.RealIP()))
	submitCtx := applog.WithContext(form.ContextWithSubmissionID(ctx, id), reqLog)

	result, err := f.Submit(submitCtx)
	opts := s.renderOptions(c)
	opts.Values = f.Values()

	switch {
	case err != nil:
		var rejected *render.PayloadError
		if errors.As(err, &rejected) {
			mapping := render.MapErrorPayload(s.cfg, rejected.Payload)
			reqLog.Warn("submission rejected by handler",
				slog.String("submission_id", id),
				slog.Int("field_errors", len(mapping.Fields)),
				slog.Int("form_errors", len(mapping.Form)),
			)
			opts = opts.WithErrors(mapping.FieldErrors())
			opts.FormErrors = mapping.Form
			if len(mapping.Fields) == 0 && len(mapping.Form) == 0 {
				opts.FormErrors = []string{MessageSubmitFailed}
			}
			return s.page(c, http.StatusUnprocessableEntity, opts)
		}
		reqLog.Error("submit handler failed", slog.String("submission_id", id), slog.Any("error", err))
		opts.FormErrors = []string{MessageSubmitFailed}
		return s.page(c, http.StatusInternalServerError, opts)
	case result.State == form.Invalid:
		opts = opts.WithErrors(result.Errors)
		return s.page(c, http.StatusUnprocessableEntity, opts)
	}

	reqLog.Info("form submitted", slog.String("submission_id", id))
	out, err := s.opts.renderer.RenderSuccess(ctx, s.cfg, id, render.RenderOptions{Action: c.Request().URL.Path, Theme: s.opts.theme})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, s.opts.renderer.ContentType(), out)
}

func (s *Server) renderOptions(c echo.Context) render.RenderOptions {
	opts := render.RenderOptions{
		Action: c.Request().URL.Path,
		Method: http.MethodPost,
		Theme:  s.opts.theme,
	}
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok && token != "" {
		opts.Hidden = append(opts.Hidden, render.CSRFToken(CSRFFieldName, token))
	}
	return opts
}

func (s *Server) page(c echo.Context, status int, opts render.RenderOptions) error {
	out, err := s.opts.renderer.Render(c.Request().Context(), s.cfg, opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(status, s.opts.renderer.ContentType(), out)
}
