// Package recordstore is the hosted record store backend. Every collection is
// reached over its REST API; there are no transactions, which is why the core
// services compensate multi-step writes themselves.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dvergarav/acuademia/core"
)

// ErrNotFound is returned when the store has no row matching the request.
// Repositories translate it to their package's not-found error.
var ErrNotFound = errors.New("record not found")

const (
	fullListPerPage = 200

	// timeLayout is the store's wire format for datetime fields.
	timeLayout = "2006-01-02 15:04:05.000Z"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg core.StoreConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AuthToken,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// apiError is the store's structured error payload.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    map[string]struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"data"`
}

type listResult struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
	Items      []json.RawMessage `json:"items"`
}

func (c *Client) create(ctx context.Context, collection string, body, out interface{}) error {
	return c.do(ctx, "create", http.MethodPost, c.recordsURL(collection), nil, body, out)
}

func (c *Client) update(ctx context.Context, collection, id string, body, out interface{}) error {
	return c.do(ctx, "update", http.MethodPatch, c.recordsURL(collection)+"/"+url.PathEscape(id), nil, body, out)
}

func (c *Client) delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.recordsURL(collection)+"/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) getOne(ctx context.Context, collection, id string, out interface{}) error {
	return c.do(ctx, "getOne", http.MethodGet, c.recordsURL(collection)+"/"+url.PathEscape(id), nil, nil, out)
}

// getFullList pages through every row matching filter, in sort order.
func (c *Client) getFullList(ctx context.Context, collection, filter, sortExpr string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	for page := 1; ; page++ {
		query := url.Values{
			"page":    {strconv.Itoa(page)},
			"perPage": {strconv.Itoa(fullListPerPage)},
		}
		if filter != "" {
			query.Set("filter", filter)
		}
		if sortExpr != "" {
			query.Set("sort", sortExpr)
		}
		var res listResult
		if err := c.do(ctx, "getFullList", http.MethodGet, c.recordsURL(collection), query, nil, &res); err != nil {
			return nil, err
		}
		items = append(items, res.Items...)
		if page >= res.TotalPages || len(res.Items) == 0 {
			break
		}
	}
	return items, nil
}

// getFirstMatch fetches the first row matching filter, or ErrNotFound.
func (c *Client) getFirstMatch(ctx context.Context, collection, filter string, out interface{}) error {
	query := url.Values{
		"page":    {"1"},
		"perPage": {"1"},
		"filter":  {filter},
	}
	var res listResult
	if err := c.do(ctx, "getFirstMatch", http.MethodGet, c.recordsURL(collection), query, nil, &res); err != nil {
		return err
	}
	if len(res.Items) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(res.Items[0], out)
}

func (c *Client) recordsURL(collection string) string {
	return c.baseURL + "/api/collections/" + url.PathEscape(collection) + "/records"
}

func (c *Client) do(ctx context.Context, op, method, rawurl string, query url.Values, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return core.NewRemoteError(op, rawurl, err)
		}
		payload = bytes.NewReader(buf)
	}

	if len(query) > 0 {
		rawurl += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawurl, payload)
	if err != nil {
		return core.NewRemoteError(op, rawurl, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	collection := collectionFromURL(req.URL.Path)
	res, err := c.http.Do(req)
	if err != nil {
		return core.NewRemoteError(op, collection, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		io.Copy(ioutil.Discard, res.Body)
		return ErrNotFound
	}
	if res.StatusCode >= 400 {
		return c.decodeError(op, collection, res)
	}
	if out == nil {
		io.Copy(ioutil.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return core.NewRemoteError(op, collection, err)
	}
	return nil
}

func (c *Client) decodeError(op, collection string, res *http.Response) error {
	var payload apiError
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil || payload.Message == "" {
		return core.NewRemoteError(op, collection, fmt.Errorf("unexpected status %d", res.StatusCode))
	}
	fields := make([]core.FieldError, 0, len(payload.Data))
	for field, detail := range payload.Data {
		fields = append(fields, core.FieldError{Field: field, Error: detail.Message})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return core.NewRemoteError(op, collection, errors.New(payload.Message), fields...)
}

// collectionFromURL extracts the collection name from a records path.
func collectionFromURL(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "collections" && i+1 < len(parts) {
			name, err := url.PathUnescape(parts[i+1])
			if err != nil {
				return parts[i+1]
			}
			return name
		}
	}
	return path
}

// quote escapes a value for use inside a filter expression.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
