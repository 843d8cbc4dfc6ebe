// Package oracle prices laundry orders with a hosted text-generation model speaking the
// Gemini generateContent REST protocol.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

const (
	maxAttempts = 2

	OutcomeSuccess    = "success"
	OutcomeHTTPError  = "http_error"
	OutcomeTimeout    = "timeout"
	OutcomeUnparsable = "unparsable"
)

// Config describes the model endpoint.
type Config struct {
	Endpoint     string
	Model        string
	APIKey       string
	Timeout      time.Duration
	RetryBackoff time.Duration
}

type attemptRecorder interface {
	OracleAttempt(outcome string, took time.Duration)
}

// GeminiClient implements ports.PricingOracle. Each attempt is bounded by Config.Timeout;
// a failed or unparsable attempt is retried once after Config.RetryBackoff.
type GeminiClient struct {
	cfg     Config
	client  *http.Client
	metrics attemptRecorder
	logger  *zap.Logger
}

var _ ports.PricingOracle = (*GeminiClient)(nil)

func NewGeminiClient(cfg Config, metrics attemptRecorder, logger *zap.Logger) *GeminiClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	return &GeminiClient{
		cfg:     cfg,
		client:  &http.Client{},
		metrics: metrics,
		logger:  logger.Named("oracle"),
	}
}

func (c *GeminiClient) Estimate(ctx context.Context, items []order.Item, isExpress bool) (ports.Estimation, error) {
	ctx, span := otel.Tracer("laundry/oracle").Start(ctx, "Estimate")
	defer span.End()

	prompt, err := buildPrompt(items, isExpress)
	if err != nil {
		return ports.Estimation{}, fmt.Errorf("%w: %w", ports.ErrEstimationFailed, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		span.SetAttributes(attribute.Int("oracle.attempts", attempt))

		est, outcome, err := c.attempt(ctx, prompt)
		if err == nil {
			return est, nil
		}
		lastErr = err

		c.logger.Warn("estimation attempt failed",
			zap.Int("attempt", attempt),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		if ctx.Err() != nil || attempt == maxAttempts {
			break
		}
		if !sleepWithContext(ctx, c.cfg.RetryBackoff) {
			break
		}
	}

	span.RecordError(lastErr)
	return ports.Estimation{}, fmt.Errorf("%w: %w", ports.ErrEstimationFailed, lastErr)
}

func (c *GeminiClient) attempt(ctx context.Context, prompt string) (ports.Estimation, string, error) {
	start := time.Now()
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	text, err := c.generate(attemptCtx, prompt)
	if err != nil {
		outcome := OutcomeHTTPError
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeTimeout
		}
		c.metrics.OracleAttempt(outcome, time.Since(start))
		return ports.Estimation{}, outcome, err
	}

	est, err := parseEstimation(text)
	if err != nil {
		c.metrics.OracleAttempt(OutcomeUnparsable, time.Since(start))
		return ports.Estimation{}, OutcomeUnparsable, err
	}

	c.metrics.OracleAttempt(OutcomeSuccess, time.Since(start))
	return est, OutcomeSuccess, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate sends one generateContent call and returns the concatenated candidate text.
func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.Endpoint, "/"), url.PathEscape(c.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, snippet)
	}

	var decoded generateResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var b strings.Builder
	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String(), nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
