// Package storefront is a typed HTTP client for the platform API. Storefront
// frontends use it to browse the catalog, mutate the session cart and place
// orders without hand-rolling requests.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/takuma-ones/ec-app/pkg/config"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 2048
	authorizationHeader        = "Authorization"
)

var (
	errBaseURLRequired = errors.New("storefront base URL is required")

	// ErrNoCredential reports an authenticated call attempted without a token.
	ErrNoCredential = errors.New("no storefront credential available")
)

// TokenSource supplies the bearer token for authenticated calls. Returning an
// empty token with a nil error means no session is established.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// Client talks to the platform API over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource sets the credential source for authenticated calls.
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		c.tokens = source
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a storefront client for the given API base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// NewClientFromConfig builds a client from the environment-driven settings.
// Extra options are applied after the config so callers can still override
// the HTTP client or token source.
func NewClientFromConfig(cfg config.StorefrontConfig, opts ...Option) (*Client, error) {
	combined := make([]Option, 0, len(opts)+1)
	combined = append(combined, WithTimeout(cfg.Timeout))
	combined = append(combined, opts...)
	return NewClient(cfg.BaseURL, combined...)
}

// HasCredential reports whether the client can currently make authenticated
// calls.
func (c *Client) HasCredential(ctx context.Context) bool {
	if c == nil || c.tokens == nil {
		return false
	}
	token, err := c.tokens.Token(ctx)
	return err == nil && token != ""
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// doJSON issues one API request and decodes the success envelope into out.
// When authenticated is true the token source must yield a non-empty token.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, authenticated bool) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "storefront client not configured")
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reqBody)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		if c.tokens == nil {
			return ErrNoCredential
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve credential")
		}
		if token == "" {
			return ErrNoCredential
		}
		req.Header.Set(authorizationHeader, "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response envelope")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response data")
	}
	return nil
}

// decodeAPIError maps the API error envelope back onto coded errors so callers
// can branch on the same codes the server uses.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	envelope := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Code == "" {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("unexpected API response (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	code := pkgerrors.Code(envelope.Error.Code)
	switch code {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeInternal:
		return pkgerrors.New(code, envelope.Error.Message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, envelope.Error.Message)
	}
}
