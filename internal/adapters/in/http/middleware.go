package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"laundry/internal/pkg/errorbank"
)

const apiPrefix = "/api/"

type requestRecorder interface {
	HTTPRequest(method, path string, status int, took time.Duration)
}

// isAPIRoute reports whether the matched route belongs to the order API. Health, metrics
// and docs stay public.
func isAPIRoute(c echo.Context) bool {
	return strings.HasPrefix(c.Path(), apiPrefix)
}

// Observability records request count and latency labelled by route pattern, and logs
// every request.
func Observability(recorder requestRecorder, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			took := time.Since(start)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status

			recorder.HTTPRequest(c.Request().Method, path, status, took)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Duration("duration", took),
			)
			return nil
		}
	}
}

// RequestValidator checks API requests against the OpenAPI document before they reach the
// handlers. Authentication is done by Authenticator, so security schemes are not checked
// here.
func RequestValidator(swagger *openapi3.T, logger *zap.Logger) (echo.MiddlewareFunc, error) {
	swagger.Servers = nil
	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isAPIRoute(c) {
				return next(c)
			}

			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				// echo already routed the request; let it answer 404/405 itself
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return respondError(c, logger, errorbank.BadRequest(err.Error(), errorbank.WithCause(err)))
			}
			return next(c)
		}
	}, nil
}
