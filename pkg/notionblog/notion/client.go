package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	// DefaultBaseURL is the authenticated Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com"

	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	maxPageSize = 100
)

// Client is the authenticated query surface used by the content layer.
// Pagination is handled internally: query operations follow next_cursor
// until the collection is exhausted.
type Client interface {
	QueryDatabase(ctx context.Context, databaseID string, q *DatabaseQuery) ([]Page, error)
	GetPage(ctx context.Context, pageID string) (*Page, error)
	GetBlockChildren(ctx context.Context, blockID string) ([]Block, error)
}

// DatabaseQuery carries the server-side filter and sort for a database query.
type DatabaseQuery struct {
	Filter   Filter `json:"filter,omitempty"`
	Sorts    []Sort `json:"sorts,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// Sort orders query results by a property or a page timestamp.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

// Filter is a Notion filter object. Constructors below cover the shapes the
// content layer needs; anything else can be built literally.
type Filter map[string]any

// FilterStatusEquals matches pages whose status property equals value.
func FilterStatusEquals(property, value string) Filter {
	return Filter{
		"property": property,
		"status":   map[string]any{"equals": value},
	}
}

// FilterRichTextEquals matches pages whose rich-text property equals value.
func FilterRichTextEquals(property, value string) Filter {
	return Filter{
		"property":  property,
		"rich_text": map[string]any{"equals": value},
	}
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %s (code=%s, status=%d)", e.Message, e.Code, e.Status)
}

// Option configures the HTTP client.
type Option func(*httpClient)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) {
		if c != nil {
			h.client = c
		}
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(base string) Option {
	return func(h *httpClient) {
		if base != "" {
			h.baseURL = base
		}
	}
}

// WithVersion overrides the Notion-Version header.
func WithVersion(v string) Option {
	return func(h *httpClient) {
		if v != "" {
			h.version = v
		}
	}
}

type httpClient struct {
	client  *http.Client
	baseURL string
	token   string
	version string
}

// NewClient creates an authenticated Notion API client.
func NewClient(token string, opts ...Option) Client {
	h := &httpClient{
		client:  http.DefaultClient,
		baseURL: DefaultBaseURL,
		token:   token,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type queryRequest struct {
	Filter      Filter `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase runs a filtered, sorted query and collects every page of
// results.
func (h *httpClient) QueryDatabase(ctx context.Context, databaseID string, q *DatabaseQuery) ([]Page, error) {
	if q == nil {
		q = &DatabaseQuery{}
	}
	size := q.PageSize
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}

	var pages []Page
	cursor := ""
	for {
		body := queryRequest{
			Filter:      q.Filter,
			Sorts:       q.Sorts,
			StartCursor: cursor,
			PageSize:    size,
		}
		var resp queryResponse
		path := fmt.Sprintf("/v1/databases/%s/query", url.PathEscape(databaseID))
		if err := h.do(ctx, http.MethodPost, path, body, &resp); err != nil {
			return nil, fmt.Errorf("querying database %s: %w", databaseID, err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// GetPage fetches a single page's metadata snapshot.
func (h *httpClient) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	path := fmt.Sprintf("/v1/pages/%s", url.PathEscape(pageID))
	if err := h.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", pageID, err)
	}
	return &page, nil
}

type childrenResponse struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// GetBlockChildren lists the direct children of a block (or page), following
// pagination. It does not descend into nested children.
func (h *httpClient) GetBlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=%d", url.PathEscape(blockID), maxPageSize)
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var resp childrenResponse
		if err := h.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("fetching children of block %s: %w", blockID, err)
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

func (h *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Notion-Version", h.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = resp.Status
		}
		// The body's status field, if any, is less trustworthy than the
		// transport's.
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
