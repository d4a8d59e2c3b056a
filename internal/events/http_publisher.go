package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/flightcatalog/config"
	"github.com/Domenick1991/flightcatalog/internal/domain"
)

// HTTPPublisher POSTs envelopes to the downstream event gateway. Unlike the
// bus channel this call is synchronous: the caller blocks for the response
// body and sees every failure.
type HTTPPublisher struct {
	client  *http.Client
	baseURL string
	path    string
	apiKey  string
	builder *Builder
}

func NewHTTPPublisher(cfg config.EventsConfig, builder *Builder) *HTTPPublisher {
	return &HTTPPublisher{
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL: cfg.BaseURL,
		path:    cfg.Path,
		apiKey:  cfg.APIKey,
		builder: builder,
	}
}

func (p *HTTPPublisher) PublishFlightCreated(ctx context.Context, f *domain.Flight, correlationID string) (string, error) {
	env, err := p.builder.FlightCreated(f, correlationID)
	if err != nil {
		return "", err
	}
	return p.post(ctx, env)
}

func (p *HTTPPublisher) PublishFlightUpdated(ctx context.Context, f *domain.Flight, correlationID string) (string, error) {
	env, err := p.builder.FlightUpdated(f, correlationID)
	if err != nil {
		return "", err
	}
	return p.post(ctx, env)
}

func (p *HTTPPublisher) post(ctx context.Context, env *HTTPEnvelope) (string, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+p.path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post event %s: %w", env.EventType, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("event gateway returned %d: %s", resp.StatusCode, string(respBody))
	}
	return string(respBody), nil
}
