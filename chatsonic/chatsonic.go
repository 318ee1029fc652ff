package chatsonic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/randalmurphal/promptfield/provider"
)

const providerName = "chatsonic"

// Client implements provider.Client for Chatsonic.
type Client struct {
	apiKey     string
	engine     string
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client

	http *resty.Client
}

var _ provider.Client = (*Client)(nil)

// New creates a Chatsonic client. Without WithAPIKey every call fails with
// provider.ErrCredentialsNotFound.
func New(opts ...Option) *Client {
	c := &Client{
		engine:  DefaultEngine,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.SetBaseURL(c.baseURL)
	if c.timeout > 0 {
		c.http.SetTimeout(c.timeout)
	}
	if c.userAgent != "" {
		c.http.SetHeader("User-Agent", c.userAgent)
	}
	return c
}

// chatRequest is the fixed request body. Google results are sent as the
// string "true", which is what the API expects.
type chatRequest struct {
	EnableGoogleResults string `json:"enable_google_results"`
	EnableMemory        bool   `json:"enable_memory"`
	InputText           string `json:"input_text"`
}

// Generate implements provider.Client.
func (c *Client) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	if c.apiKey == "" {
		return nil, provider.NewError(providerName, "generate", provider.ErrCredentialsNotFound, false)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("engine", c.engine).
		SetHeader("accept", "application/json").
		SetHeader("content-type", "application/json").
		SetHeader("X-API-KEY", c.apiKey).
		SetBody(chatRequest{
			EnableGoogleResults: "true",
			EnableMemory:        false,
			InputText:           req.Prompt,
		}).
		Post(chatPath)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}

	content, metadata, err := decodeMessage(resp.Body())
	if err != nil {
		slog.Debug("chatsonic returned an unexpected body",
			slog.Int("status", resp.StatusCode()),
			slog.String("body_preview", preview(resp.Body())))
		return nil, provider.NewError(providerName, "decode", err, false)
	}

	return &provider.Response{
		Content:  content,
		Provider: providerName,
		Duration: time.Since(start),
		Metadata: metadata,
	}, nil
}

// Provider implements provider.Client.
func (c *Client) Provider() string {
	return providerName
}

// Close implements provider.Client.
func (c *Client) Close() error {
	return nil
}

// decodeMessage pulls the string "message" out of a JSON object body.
func decodeMessage(body []byte) (string, map[string]any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", nil, fmt.Errorf("%w: %v", provider.ErrMalformedResponse, err)
	}
	if fields == nil {
		return "", nil, fmt.Errorf("%w: body is not a JSON object", provider.ErrMalformedResponse)
	}

	raw, ok := fields["message"]
	if !ok {
		return "", nil, fmt.Errorf("%w: missing message", provider.ErrMalformedResponse)
	}
	var message string
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '"' {
		return "", nil, fmt.Errorf("%w: message is not a string", provider.ErrMalformedResponse)
	}
	if err := json.Unmarshal(raw, &message); err != nil {
		return "", nil, fmt.Errorf("%w: message is not a string", provider.ErrMalformedResponse)
	}

	var metadata map[string]any
	if rawURLs, ok := fields["image_urls"]; ok {
		var urls []string
		if json.Unmarshal(rawURLs, &urls) == nil && len(urls) > 0 {
			metadata = map[string]any{"image_urls": urls}
		}
	}
	return message, metadata, nil
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return provider.NewError(providerName, "generate", fmt.Errorf("%w: %v", provider.ErrTimeout, err), true)
	}
	if ctx.Err() != nil {
		return provider.NewError(providerName, "generate", ctx.Err(), false)
	}
	return provider.NewError(providerName, "generate", fmt.Errorf("%w: %v", provider.ErrUnavailable, err), true)
}

// apiError is the error body shape Writesonic returns.
type apiError struct {
	Detail any `json:"detail"`
}

func statusError(resp *resty.Response) error {
	detail := resp.Status()
	var body apiError
	if json.Unmarshal(resp.Body(), &body) == nil && body.Detail != nil {
		detail = fmt.Sprintf("%s: %v", resp.Status(), body.Detail)
	}

	code := resp.StatusCode()
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return provider.NewError(providerName, "generate", fmt.Errorf("%w: %s", provider.ErrCredentialsNotFound, detail), false)
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return provider.NewError(providerName, "generate", fmt.Errorf("%w: %s", provider.ErrInvalidRequest, detail), false)
	case code == http.StatusTooManyRequests:
		return provider.NewError(providerName, "generate", fmt.Errorf("%w: %s", provider.ErrRateLimited, detail), true)
	case code >= 500:
		return provider.NewError(providerName, "generate", fmt.Errorf("%w: %s", provider.ErrUnavailable, detail), true)
	default:
		return provider.NewError(providerName, "generate", fmt.Errorf("unexpected status %s", detail), false)
	}
}

func preview(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
