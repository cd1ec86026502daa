// Package client is a Go client for the facilitydesk REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// RemoteError is any non-2xx response. Detail comes from the response
// body's "detail" field and is meant to be shown to users verbatim.
type RemoteError struct {
	StatusCode int
	Detail     string
	Code       string
}

func (e *RemoteError) Error() string {
	return e.Detail
}

// errorBody mirrors the server's JSON error shape.
type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// Config holds the connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a resty-backed API client.
type Client struct {
	http *resty.Client
}

// New builds a client. An empty token sends no Authorization header.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	return &Client{http: rc}
}

// Facilities returns the facility lookup. Both the {id, name} shape and
// the legacy {facility_id, facility_name} shape are accepted.
func (c *Client) Facilities(ctx context.Context) ([]core.Facility, error) {
	return c.facilities(ctx, http.MethodGet, "/api/facilities")
}

// RefreshFacilities asks the server to drop its cached lookup and returns
// the reloaded list.
func (c *Client) RefreshFacilities(ctx context.Context) ([]core.Facility, error) {
	return c.facilities(ctx, http.MethodPost, "/api/facilities/refresh")
}

func (c *Client) facilities(ctx context.Context, method, path string) ([]core.Facility, error) {
	var raw []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		FacilityID   int64  `json:"facility_id"`
		FacilityName string `json:"facility_name"`
	}
	if err := c.do(ctx, method, path, nil, nil, &raw); err != nil {
		return nil, err
	}

	out := make([]core.Facility, len(raw))
	for i, f := range raw {
		out[i] = core.Facility{ID: f.ID, Name: f.Name}
		if out[i].ID == 0 {
			out[i].ID = f.FacilityID
		}
		if out[i].Name == "" {
			out[i].Name = f.FacilityName
		}
	}
	return out, nil
}

// List returns the records of kind matching p.
func (c *Client) List(ctx context.Context, kind string, p core.Predicates) ([]core.Record, error) {
	var out []core.Record
	err := c.do(ctx, http.MethodGet, "/api/"+url.PathEscape(kind), predicateQuery(p), nil, &out)
	return out, err
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, kind string, id int64) (core.Record, error) {
	var out core.Record
	err := c.do(ctx, http.MethodGet, recordPath(kind, id), nil, nil, &out)
	return out, err
}

// Create inserts one record.
func (c *Client) Create(ctx context.Context, kind string, body map[string]any) (core.Record, error) {
	var out core.Record
	err := c.do(ctx, http.MethodPost, "/api/"+url.PathEscape(kind), nil, body, &out)
	return out, err
}

// BulkCreate inserts every record or none.
func (c *Client) BulkCreate(ctx context.Context, kind string, bodies []map[string]any) ([]core.Record, error) {
	var out []core.Record
	err := c.do(ctx, http.MethodPost, "/api/"+url.PathEscape(kind)+"/bulk", nil, bodies, &out)
	return out, err
}

// Update changes the given fields of one record.
func (c *Client) Update(ctx context.Context, kind string, id int64, fields map[string]any) (core.Record, error) {
	var out core.Record
	err := c.do(ctx, http.MethodPut, recordPath(kind, id), nil, fields, &out)
	return out, err
}

// BulkDelete removes the given ids and returns how many existed.
func (c *Client) BulkDelete(ctx context.Context, kind string, ids []int64) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/"+url.PathEscape(kind)+"/bulk-delete", nil, map[string]any{"ids": ids}, &out)
	return out.Deleted, err
}

// Import uploads a .csv or .xlsx file. When no row was valid the returned
// error is a *RemoteError and the result is nil.
func (c *Client) Import(ctx context.Context, kind, fileName string, data []byte) (*core.ImportResult, error) {
	result := new(core.ImportResult)
	apiErr := new(errorBody)

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", fileName, bytes.NewReader(data)).
		SetResult(result).
		SetError(apiErr).
		Post("/api/" + url.PathEscape(kind) + "/import")
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", kind, err)
	}
	if resp.IsError() {
		return nil, remoteError(resp, apiErr)
	}
	return result, nil
}

// Export downloads the filtered records and returns the server's file name.
func (c *Client) Export(ctx context.Context, kind string, format core.FileFormat, p core.Predicates) (string, []byte, error) {
	q := predicateQuery(p)
	q.Set("format", string(format))
	return c.download(ctx, "/api/"+url.PathEscape(kind)+"/export", q)
}

// Template downloads the header-only CSV for kind.
func (c *Client) Template(ctx context.Context, kind string) (string, []byte, error) {
	return c.download(ctx, "/api/"+url.PathEscape(kind)+"/template", nil)
}

func (c *Client) download(ctx context.Context, path string, q url.Values) (string, []byte, error) {
	apiErr := new(errorBody)
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if q != nil {
		req.SetQueryParamsFromValues(q)
	}

	resp, err := req.Get(path)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", path, err)
	}
	if resp.IsError() {
		return "", nil, remoteError(resp, apiErr)
	}

	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return name, resp.Body(), nil
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	apiErr := new(errorBody)
	req := c.http.R().
		SetContext(ctx).
		SetError(apiErr)
	if q != nil {
		req.SetQueryParamsFromValues(q)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return remoteError(resp, apiErr)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// remoteError builds a RemoteError from a failed response, falling back to
// a generic message when the body carries no detail.
func remoteError(resp *resty.Response, body *errorBody) error {
	e := &RemoteError{StatusCode: resp.StatusCode()}
	if body != nil {
		e.Detail = body.Detail
		e.Code = body.Code
	}
	if e.Detail == "" {
		e.Detail = fmt.Sprintf("request failed with status %d", resp.StatusCode())
	}
	return e
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

func recordPath(kind string, id int64) string {
	return "/api/" + url.PathEscape(kind) + "/" + strconv.FormatInt(id, 10)
}

func predicateQuery(p core.Predicates) url.Values {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Facility != "" {
		q.Set("facility", p.Facility)
		q.Set("facility_mode", p.FacilityMode.String())
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	return q
}
