// Package adapter holds clients for external services the backend depends
// on. Currently that is the upstream NVC analysis provider.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/BinGess/Ocean-backend/internal/config"
)

const defaultAnalysisTimeout = time.Minute

// NVCClient calls the provider's workflow-run endpoint over HTTP. The
// analysis payload is treated as opaque JSON end to end; only the envelope
// is decoded here.
type NVCClient struct {
	client    *resty.Client
	projectID string
}

// NewNVCClient builds the upstream analysis client from configuration.
func NewNVCClient(cfg config.AI) *NVCClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultAnalysisTimeout
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIToken)

	return &NVCClient{client: cli, projectID: cfg.ProjectID}
}

// analysisEnvelope is the provider's response wrapper around the opaque
// analysis document.
type analysisEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Analyze runs NVC analysis on a transcription and returns the provider's
// opaque payload together with the upstream HTTP status code. The status
// code is returned even on failure so callers can log it.
func (c *NVCClient) Analyze(ctx context.Context, transcription string) (json.RawMessage, int, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"workflow_id": c.projectID,
			"parameters":  map[string]string{"transcription": transcription},
		}).
		Post("/workflow/run")
	if err != nil {
		return nil, 0, fmt.Errorf("analysis request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		body := strings.TrimSpace(string(resp.Body()))
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return nil, resp.StatusCode(), fmt.Errorf("%w: http %d: %s", ErrUpstreamUnavailable, resp.StatusCode(), body)
	}

	var envelope analysisEnvelope
	if err = json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, resp.StatusCode(), fmt.Errorf("decode analysis response: %w", err)
	}
	if envelope.Code != 0 {
		return nil, resp.StatusCode(), fmt.Errorf("%w: code %d: %s", ErrUpstreamRejected, envelope.Code, envelope.Msg)
	}

	return envelope.Data, resp.StatusCode(), nil
}
