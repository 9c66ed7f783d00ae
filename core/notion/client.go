package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"refsync/core/errors"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

// PageSize is the page size used by cursor walks.
const PageSize = 100

// APIError is the error object returned by the API.
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error: %d %s - %s", e.Status, e.Code, e.Message)
}

// Client is the workspace API client. A client without a transport fails
// every call with errors.ErrNotAttached.
type Client struct {
	http *req.Client
}

// New creates a client attached to a transport configured from cfg.
func New(cfg Config) *Client {
	c := &Client{}
	c.Attach(NewTransport(cfg))
	return c
}

// NewTransport builds the HTTP transport for cfg.
func NewTransport(cfg Config) *req.Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return req.C().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(timeout)*time.Second).
		SetCommonBearerAuthToken(cfg.Token).
		SetCommonHeader("Notion-Version", cfg.Version).
		SetCommonRetryCount(cfg.RetryCount).
		SetCommonRetryFixedInterval(1*time.Second).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		}).
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
}

// Attach sets the transport used by subsequent calls.
func (c *Client) Attach(transport *req.Client) {
	c.http = transport
}

// Detach removes the transport.
func (c *Client) Detach() {
	c.http = nil
}

// Attached reports whether a transport is set.
func (c *Client) Attached() bool {
	return c.http != nil
}

func (c *Client) request(ctx context.Context) (*req.Request, error) {
	if c.http == nil {
		return nil, errors.NewNotAttachedError("notion")
	}
	return c.http.R().SetContext(ctx), nil
}

// handleAPIError wraps transport failures with the operation name. Error
// responses carrying a JSON body with a code are returned as *APIError;
// anything else keeps the raw body in the message.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		if err, ok := resp.ErrorResult().(*APIError); ok && err.Code != "" {
			return fmt.Errorf("%s: %w", operation, err)
		}
		return fmt.Errorf("api error: %s %s", operation, resp.String())
	}

	return nil
}
