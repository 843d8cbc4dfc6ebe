package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"laundry/internal/generated/servers"
)

// RouterConfig is what the router needs besides the API server itself.
type RouterConfig struct {
	ServiceName    string
	LogLevel       log.Lvl
	TracingEnabled bool
	MetricsPath    string
	MetricsHandler http.Handler
	SwaggerEnabled bool
}

// NewRouter configures echo with the API routes, auth, request validation, observability,
// health, metrics and docs.
func NewRouter(
	cfg RouterConfig,
	server servers.ServerInterface,
	auth *Authenticator,
	recorder requestRecorder,
	logger *zap.Logger,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(cfg.LogLevel)
	e.HTTPErrorHandler = errorHandler(logger)

	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	validator, err := RequestValidator(swagger, logger)
	if err != nil {
		return nil, err
	}

	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.ServiceName))
	}
	e.Use(Observability(recorder, logger))
	e.Use(middleware.Recover())
	e.Use(auth.Middleware())
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.MetricsHandler != nil && cfg.MetricsPath != "" {
		e.GET(cfg.MetricsPath, echo.WrapHandler(cfg.MetricsHandler))
	}

	if cfg.SwaggerEnabled {
		if err = servers.RegisterSwaggerDoc(); err != nil {
			return nil, err
		}
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	servers.RegisterHandlers(e, server)
	return e, nil
}
