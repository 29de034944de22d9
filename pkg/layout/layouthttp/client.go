// Package layouthttp talks to a layout analysis service that follows the
// PP-Structure result shape: one entry per region with a type tag, a pixel
// bounding box and a type specific "res" value.
package layouthttp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/Abraxas-365/docextract/pkg/asyncx"
	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

const (
	DefaultTimeout  = 2 * time.Minute
	DefaultEndpoint = "/predict/structure"
	MaxRetries      = 3
	DefaultBackoff  = time.Second
)

// Client is a layout.Engine backed by a remote structure service.
type Client struct {
	baseURL     string
	endpoint    string
	httpClient  *http.Client
	maxRetries  int
	backoff     time.Duration
	cropPadding int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoint overrides the request path appended to the base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryBackoff sets the delay before the first retry. It doubles on
// each further retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithCropPadding sets the margin added around table and figure crops.
func WithCropPadding(px int) Option {
	return func(c *Client) { c.cropPadding = px }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		endpoint:    DefaultEndpoint,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		maxRetries:  MaxRetries,
		backoff:     DefaultBackoff,
		cropPadding: layout.DefaultCropPadding,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type detectRequest struct {
	Image  string `json:"image"`
	Lang   string `json:"lang,omitempty"`
	Layout bool   `json:"layout"`
}

// Detect sends page to the service and converts the reply into regions.
func (c *Client) Detect(ctx context.Context, page image.Image, opts layout.DetectOptions) ([]layout.Region, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, page); err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEncodePage, err)
	}

	payload, err := json.Marshal(detectRequest{
		Image:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		Lang:   opts.Language,
		Layout: opts.LayoutEnabled,
	})
	if err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEncodePage, err)
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	regions, err := decodeRegions(body, page, c.cropPadding)
	if err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrInvalidResponse, err)
	}
	return regions, nil
}

// post sends payload, retrying transport failures, 429 and 5xx with
// exponential backoff.
func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	attempt := 0
	body, err := asyncx.RetryWithBackoff(ctx, c.maxRetries+1, c.backoff, func(ctx context.Context) ([]byte, error) {
		if attempt > 0 {
			logx.WithFields(logx.Fields{"attempt": attempt, "url": c.baseURL}).
				Debug("retrying layout request")
		}
		attempt++

		body, err := c.doRequest(ctx, payload)
		if err == nil {
			return body, nil
		}
		if !shouldRetry(err) {
			return nil, asyncx.Permanent(err)
		}
		return nil, err
	})
	if err == nil {
		return body, nil
	}

	var xerr *errx.Error
	if errors.As(err, &xerr) {
		return nil, xerr
	}
	// context cancelled between attempts
	return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineUnavailable, err).
		WithDetail("attempt", attempt)
}

func (c *Client) doRequest(ctx context.Context, payload []byte) ([]byte, *errx.Error) {
	url := c.baseURL + c.endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineUnavailable, err).
			WithDetail("url", url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "docextract/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineUnavailable, err).
			WithDetail("url", url)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrInvalidResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, layout.ErrRegistry.NewWithMessage(layout.ErrEngineRejected,
			fmt.Sprintf("layout service returned %d", resp.StatusCode)).
			WithDetail("status_code", resp.StatusCode).
			WithDetail("body", truncate(string(respBody), 512))
	}
	return respBody, nil
}

// shouldRetry retries transport failures, 429 and 5xx responses.
func shouldRetry(err *errx.Error) bool {
	if err.Code == layout.ErrEngineUnavailable.Code {
		return true
	}
	if status, ok := err.Details["status_code"].(int); ok {
		return status == http.StatusTooManyRequests || status >= 500
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
