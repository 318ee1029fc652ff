package management

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the Management API v2 root.
const DefaultBaseURL = "https://manage.kontent.ai/v2"

const variantPath = "/projects/{projectId}/items/codename/{itemCodename}/variants/codename/{languageCodename}"

// Client is an authenticated Management API session for one project.
// It is safe for concurrent use.
type Client struct {
	projectID  string
	baseURL    string
	userAgent  string
	httpClient *http.Client

	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New opens a session for projectID authenticated with apiKey.
func New(projectID, apiKey string, opts ...Option) (*Client, error) {
	if projectID == "" {
		return nil, ErrMissingProjectID
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{projectID: projectID, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.SetBaseURL(c.baseURL).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")
	if c.userAgent != "" {
		c.http.SetHeader("User-Agent", c.userAgent)
	}
	return c, nil
}

// ProjectID returns the project the session is bound to.
func (c *Client) ProjectID() string {
	return c.projectID
}

// UpsertLanguageVariant creates or updates the language variant of an item.
// Elements not listed in req keep their current values.
func (c *Client) UpsertLanguageVariant(ctx context.Context, req UpsertRequest) (*LanguageVariant, error) {
	if req.ItemCodename == "" || req.LanguageCodename == "" {
		return nil, ErrMissingTarget
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"projectId":        c.projectID,
			"itemCodename":     req.ItemCodename,
			"languageCodename": req.LanguageCodename,
		}).
		SetHeader("Content-Type", "application/json").
		SetBody(upsertBody{Elements: req.Elements}).
		Put(variantPath)
	if err != nil {
		return nil, fmt.Errorf("upsert language variant %s/%s: %w", req.ItemCodename, req.LanguageCodename, err)
	}
	if resp.IsError() {
		return nil, decodeAPIError(resp)
	}

	var variant LanguageVariant
	if body := resp.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &variant); err != nil {
			return nil, fmt.Errorf("decode language variant: %w", err)
		}
	}
	return &variant, nil
}

func decodeAPIError(resp *resty.Response) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = resp.Status()
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}
