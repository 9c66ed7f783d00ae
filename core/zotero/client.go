package zotero

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"refsync/core/entity"
	"refsync/core/errors"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

// DefaultLimit is the page size used by the All* walks.
const DefaultLimit = 100

// APIError is a non-success response. The API answers errors in plain text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zotero api error: %d %s", e.Status, e.Message)
}

// SearchParameters filter item and collection listings.
type SearchParameters struct {
	ItemKey        []string
	ItemType       string
	Q              string
	Since          int
	Tag            string
	IncludeTrashed bool
}

func (p SearchParameters) query() map[string]string {
	q := map[string]string{}
	if len(p.ItemKey) > 0 {
		q["itemKey"] = strings.Join(p.ItemKey, ",")
	}
	if p.ItemType != "" {
		q["itemType"] = p.ItemType
	}
	if p.Q != "" {
		q["q"] = p.Q
	}
	if p.Since > 0 {
		q["since"] = strconv.Itoa(p.Since)
	}
	if p.Tag != "" {
		q["tag"] = p.Tag
	}
	if p.IncludeTrashed {
		q["includeTrashed"] = "1"
	}
	return q
}

// Pagination selects one page of a listing.
type Pagination struct {
	Sort      string
	Direction string
	Limit     int
	Start     int
}

func (p Pagination) query() map[string]string {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := map[string]string{
		"limit": strconv.Itoa(limit),
		"start": strconv.Itoa(p.Start),
	}
	if p.Sort != "" {
		q["sort"] = p.Sort
	}
	if p.Direction != "" {
		q["direction"] = p.Direction
	}
	return q
}

// Client reads a user or group library. A client without a transport fails
// every call with errors.ErrNotAttached.
type Client struct {
	http   *req.Client
	prefix string
}

// New creates a client attached to a transport configured from cfg.
func New(cfg Config) *Client {
	c := &Client{prefix: cfg.prefix()}
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
		SetCommonHeader("Zotero-API-Key", cfg.APIKey).
		SetCommonHeader("Zotero-API-Version", "3").
		SetCommonQueryParam("format", "json").
		SetCommonRetryCount(cfg.RetryCount).
		SetCommonRetryFixedInterval(1*time.Second).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		}).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
}

func (c *Client) Attach(transport *req.Client) { c.http = transport }
func (c *Client) Detach()                      { c.http = nil }
func (c *Client) Attached() bool               { return c.http != nil }

func (c *Client) list(ctx context.Context, path string, params SearchParameters, page Pagination, result any) error {
	if c.http == nil {
		return errors.NewNotAttachedError("zotero")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params.query()).
		SetQueryParams(page.query()).
		SetSuccessResult(result).
		Get(c.prefix + path)
	return handleAPIError(resp, err, strings.TrimPrefix(path, "/"))
}

// handleAPIError wraps transport failures with the operation name and turns
// error responses into *APIError. Zotero answers errors in plain text, so the
// trimmed body becomes the message.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		return fmt.Errorf("%s: %w", operation, &APIError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(resp.String()),
		})
	}

	return nil
}

// Items returns one page of items.
func (c *Client) Items(ctx context.Context, params SearchParameters, page Pagination) ([]*Item, error) {
	var items []*Item
	if err := c.list(ctx, "/items", params, page, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Collections returns one page of collections.
func (c *Client) Collections(ctx context.Context, params SearchParameters, page Pagination) ([]*Collection, error) {
	var collections []*Collection
	if err := c.list(ctx, "/collections", params, page, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// walk fetches pages until one comes back shorter than the limit.
func walk[T any](ctx context.Context, params SearchParameters, fetch func(context.Context, SearchParameters, Pagination) ([]T, error)) ([]T, error) {
	page := Pagination{Limit: DefaultLimit}
	var all []T
	for {
		batch, err := fetch(ctx, params, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < page.Limit {
			return all, nil
		}
		page.Start += page.Limit
	}
}

// AllItems returns every item of the library matching params.
func (c *Client) AllItems(ctx context.Context, params SearchParameters) ([]*Item, error) {
	return walk(ctx, params, c.Items)
}

// AllCollections returns every collection of the library matching params.
func (c *Client) AllCollections(ctx context.Context, params SearchParameters) ([]*Collection, error) {
	return walk(ctx, params, c.Collections)
}

// AllItemsGrouped returns every item with attachments and notes attached to
// their parent. Attached children are removed from the top level when
// deleteChildren is set.
func (c *Client) AllItemsGrouped(ctx context.Context, deleteChildren bool) ([]*Item, error) {
	items, err := c.AllItems(ctx, SearchParameters{})
	if err != nil {
		return nil, err
	}
	return entity.Group(items, deleteChildren), nil
}

// AllCollectionsGrouped returns every collection with subcollections attached
// to their parent.
func (c *Client) AllCollectionsGrouped(ctx context.Context, deleteChildren bool) ([]*Collection, error) {
	collections, err := c.AllCollections(ctx, SearchParameters{})
	if err != nil {
		return nil, err
	}
	return entity.Group(collections, deleteChildren), nil
}
