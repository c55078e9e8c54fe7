package smartsheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	smartsync "github.com/tabwise/go-smartsync"
)

// Client implements the smartsync.Store interface against the Smartsheet
// REST API. It is stateless; every call is one blocking request with no
// internal retry.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a new Smartsheet client with the provided configuration.
func New(ctx context.Context, config Config) (*Client, error) {
	if err := config.Credentials.Validate(); err != nil {
		return nil, err
	}

	hc := config.HTTPClient
	if hc == nil {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Credentials.Token})
		hc = oauth2.NewClient(ctx, source)
	}

	return &Client{
		http:    hc,
		baseURL: config.baseURL(),
	}, nil
}

// NewWithProvider creates a client after resolving credentials from the
// given provider.
func NewWithProvider(ctx context.Context, provider Provider, config Config) (*Client, error) {
	creds, err := provider.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	config.Credentials = creds
	return New(ctx, config)
}

// GetSheet retrieves one page of a sheet. A page of 0 fetches the whole
// sheet.
func (c *Client) GetSheet(ctx context.Context, id string, page, pageSize int) (*smartsync.Sheet, error) {
	u := fmt.Sprintf("%s/sheets/%s", c.baseURL, url.PathEscape(id))
	if page > 0 {
		u += "?" + pageQuery(page, pageSize).Encode()
	}

	var payload sheetPayload
	if err := c.get(ctx, u, &payload); err != nil {
		return nil, err
	}
	return payload.toSheet(), nil
}

// GetReport retrieves one page of a report including its source sheets.
func (c *Client) GetReport(ctx context.Context, id string, page, pageSize int) (*smartsync.Report, error) {
	q := url.Values{}
	q.Set("include", "sourceSheets")
	if page > 0 {
		for k, v := range pageQuery(page, pageSize) {
			q[k] = v
		}
	}
	u := fmt.Sprintf("%s/reports/%s?%s", c.baseURL, url.PathEscape(id), q.Encode())

	var payload sheetPayload
	if err := c.get(ctx, u, &payload); err != nil {
		return nil, err
	}
	return payload.toReport(), nil
}

// UpdateRows submits all updates as a single batch call.
func (c *Client) UpdateRows(ctx context.Context, sheetID string, rows []smartsync.RowUpdate) (int, error) {
	u := fmt.Sprintf("%s/sheets/%s/rows", c.baseURL, url.PathEscape(sheetID))
	return c.mutate(ctx, http.MethodPut, u, updatePayload(rows), "update")
}

// AddRows submits all inserts as a single batch call. New rows are appended
// at the end of the sheet.
func (c *Client) AddRows(ctx context.Context, sheetID string, rows []smartsync.RowInsert) (int, error) {
	u := fmt.Sprintf("%s/sheets/%s/rows", c.baseURL, url.PathEscape(sheetID))
	return c.mutate(ctx, http.MethodPost, u, insertPayload(rows), "insert")
}

// DeleteRows removes the identified rows in a single call. The store caps
// one call at 300 ids; callers batch accordingly.
func (c *Client) DeleteRows(ctx context.Context, sheetID string, rowIDs []int64) error {
	ids := make([]string, len(rowIDs))
	for i, id := range rowIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("ignoreRowsNotFound", "true")
	u := fmt.Sprintf("%s/sheets/%s/rows?%s", c.baseURL, url.PathEscape(sheetID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete rows request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mutationError("delete", resp)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return smartsync.ErrSheetNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorPayload
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("remote store returned status %d: %s", resp.StatusCode, apiErr.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mutate issues one bulk mutation and returns the number of rows the store
// reports back in its result envelope.
func (c *Client) mutate(ctx context.Context, method, url string, payload []rowWritePayload, op string) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, mutationError(op, resp)
	}

	var result resultPayload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode %s result: %w", op, err)
	}
	return len(result.Result), nil
}

// mutationError converts a rejected batch into a *smartsync.MutationError
// carrying whatever diagnostic payload the store returned.
func mutationError(op string, resp *http.Response) error {
	var apiErr errorPayload
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &apiErr)
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return &smartsync.MutationError{
		Op:      op,
		Status:  resp.StatusCode,
		Code:    apiErr.ErrorCode,
		Message: apiErr.Message,
		RefID:   apiErr.RefID,
	}
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	return q
}
