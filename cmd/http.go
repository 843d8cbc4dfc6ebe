package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	httpin "laundry/internal/adapters/in/http"
	"laundry/internal/adapters/out/oracle"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/metrics"
)

// NewPricingOracle builds the model client that prices and explains new orders.
func NewPricingOracle(cfg Config, recorder *metrics.Recorder, logger *zap.Logger) ports.PricingOracle {
	if cfg.Oracle.APIKey == "" {
		logger.Warn("ORACLE_API_KEY is empty; order estimation will fail")
	}
	return oracle.NewGeminiClient(oracle.Config{
		Endpoint:     cfg.Oracle.Endpoint,
		Model:        cfg.Oracle.Model,
		APIKey:       cfg.Oracle.APIKey,
		Timeout:      cfg.Oracle.Timeout,
		RetryBackoff: cfg.Oracle.RetryBackoff,
	}, recorder, logger)
}

// NewAuthenticator verifies bearer tokens with the shared HMAC secret.
func NewAuthenticator(cfg Config, logger *zap.Logger) (*httpin.Authenticator, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("missing AUTH_JWT_SECRET")
	}
	return httpin.NewAuthenticator(cfg.Auth.JWTSecret, logger), nil
}

// NewEcho builds the API router on top of the use case handlers.
func NewEcho(
	cfg Config,
	root *CompositionRoot,
	auth *httpin.Authenticator,
	obs *ObservabilityManager,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) (*echo.Echo, error) {
	server := httpin.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateUpdateOrderStatusCommandHandler(),
		root.CreateListOrdersQueryHandler(),
		logger,
	)

	return httpin.NewRouter(httpin.RouterConfig{
		ServiceName:    cfg.Observability.ServiceName,
		LogLevel:       echoLogLevel(cfg.Observability.LogLevel),
		TracingEnabled: obs.TracingEnabled(),
		MetricsPath:    cfg.Observability.PrometheusPath,
		MetricsHandler: obs.MetricsHandler(),
		SwaggerEnabled: cfg.HTTP.SwaggerEnabled,
	}, server, auth, recorder, logger)
}

// RunHTTPServer starts the HTTP server and ties it to the Fx lifecycle.
func RunHTTPServer(lc fx.Lifecycle, cfg Config, e *echo.Echo, logger *zap.Logger) {
	addr := cfg.HTTP.Addr()
	server := &http.Server{
		Addr:    addr,
		Handler: e,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting HTTP server", zap.String("addr", addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}
