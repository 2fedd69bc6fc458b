package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// FallbackReport is returned whenever the generative endpoint is
// unreachable, misconfigured, or answers with anything unusable. Callers
// always get printable copy.
const FallbackReport = "Our concierge is currently polishing your personalized reports. Please check back shortly."

// Suggestion labels derived locally from the merchant's average rating.
const (
	SuggestionTrust   = "TRUST"
	SuggestionDecent  = "DECENT"
	SuggestionCaution = "CAUTION"
)

// SuggestionFor maps an average rating onto an advisory label. The
// thresholds are fixed product copy, not tunable policy.
func SuggestionFor(avgRating float64) string {
	switch {
	case avgRating >= 4.0:
		return SuggestionTrust
	case avgRating >= 3.0:
		return SuggestionDecent
	default:
		return SuggestionCaution
	}
}

// Client calls an external generative-text endpoint for narrative advisory
// copy. It is strictly best effort: every failure path degrades to
// FallbackReport and a log line, never an error to the caller.
type Client struct {
	Endpoint string
	APIKey   string
	Model    string
	HTTP     *http.Client
	Logger   *logrus.Logger
}

func NewClient(endpoint, apiKey, model string, logger *logrus.Logger) *Client {
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Logger:   logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate requests narrative copy for the given prompt. The returned
// string is always non-empty.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	if c.Endpoint == "" || c.APIKey == "" {
		return FallbackReport
	}

	body, err := json.Marshal(generateRequest{Model: c.Model, Prompt: prompt})
	if err != nil {
		c.logDegrade("marshal advisory request", err)
		return FallbackReport
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		c.logDegrade("build advisory request", err)
		return FallbackReport
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logDegrade("call advisory endpoint", err)
		return FallbackReport
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logDegrade("advisory endpoint status", fmt.Errorf("status %d", resp.StatusCode))
		return FallbackReport
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logDegrade("decode advisory response", err)
		return FallbackReport
	}
	if out.Text == "" {
		return FallbackReport
	}
	return out.Text
}

func (c *Client) logDegrade(msg string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.WithFields(logrus.Fields{"error": err.Error()}).Warn(msg + ", serving fallback report")
}
