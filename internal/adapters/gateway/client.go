package gateway

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

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/logging"
	"github.com/bnema/aicms-cli/internal/ports"
	"github.com/bnema/aicms-cli/internal/version"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// Client is the single outbound HTTP channel to the CMS API. The session is
// read on every call so a login or logout takes effect on the next request.
type Client struct {
	baseURL    *url.URL
	sessions   ports.SessionStore
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
}

var _ ports.Gateway = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

func NewClient(baseURL string, sessions ports.SessionStore, opts ...Option) (*Client, error) {
	if sessions == nil {
		return nil, errors.New("session store is nil")
	}

	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	client := &Client{
		baseURL:    parsed,
		sessions:   sessions,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
		userAgent:  "aicms/" + version.Version,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	endpoint, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("X-Request-ID", ulid.Make().String())
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	c.authorize(ctx, request)

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("api_request_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &domain.TransportError{Method: method, Path: path, Err: err}
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("api_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", response.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("headers", logging.SafeHeaders(request.Header)),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, newServerError(response.StatusCode, payload)
	}

	payload = bytes.TrimSpace(payload)
	if response.StatusCode == http.StatusNoContent || len(payload) == 0 {
		return nil, nil
	}

	return json.RawMessage(payload), nil
}

func (c *Client) authorize(ctx context.Context, request *http.Request) {
	session, err := c.sessions.Get(ctx)
	if err != nil {
		c.logger.Warn("session_read_failed", zap.Error(err))
		return
	}
	if !session.Authenticated() {
		return
	}

	request.Header.Set("Authorization", "Bearer "+session.AccessToken)
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse request path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("request path %q must be relative", path)
	}

	return c.baseURL.ResolveReference(ref).String(), nil
}
