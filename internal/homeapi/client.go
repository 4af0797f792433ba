package homeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/homedash/internal/version"
)

const (
	// DefaultPort is the port the dashboard server listens on by default
	DefaultPort = 8080

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response is read
	maxBodySize = 4 << 20
)

// Client talks to the home-automation server's JSON API.
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent on every request
	UserAgent string
}

// NewClient creates a client for a server at host:port.
func NewClient(host string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewClientWithURL creates a client with a full base URL.
// A missing scheme defaults to http.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    NormalizeBaseURL(baseURL),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  version.UserAgent(),
	}
}

// NormalizeBaseURL adds a scheme when missing and strips trailing slashes.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// FetchSnapshot retrieves the full home state.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, NewParseError("failed to parse state response", err)
	}
	return &snap, nil
}

// Control sends a single device command. value may be empty.
func (c *Client) Control(ctx context.Context, req ControlRequest) (*Result, error) {
	q := url.Values{}
	q.Set("id", req.DeviceID)
	q.Set("action", req.Action)
	if req.Value != "" {
		q.Set("value", req.Value)
	}
	return c.mutate(ctx, "/api/control", q, nil)
}

// AddRoom creates a room.
func (c *Client) AddRoom(ctx context.Context, name string) (*Result, error) {
	q := url.Values{}
	q.Set("name", name)
	return c.mutate(ctx, "/api/rooms/add", q, nil)
}

// AddDevice creates a device inside an existing room.
func (c *Client) AddDevice(ctx context.Context, room, name string, typ DeviceType) (*Result, error) {
	q := url.Values{}
	q.Set("room", room)
	q.Set("name", name)
	q.Set("type", string(typ))
	return c.mutate(ctx, "/api/devices/add", q, nil)
}

// RemoveDevice deletes a device by id.
func (c *Client) RemoveDevice(ctx context.Context, id string) (*Result, error) {
	q := url.Values{}
	q.Set("id", id)
	return c.mutate(ctx, "/api/devices/remove", q, nil)
}

// AddRule creates an automation rule.
func (c *Client) AddRule(ctx context.Context, rule RuleRequest) (*Result, error) {
	payload, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule: %w", err)
	}
	return c.mutate(ctx, "/api/rules/add", nil, payload)
}

// ListRules retrieves the rule list without the rest of the state.
func (c *Client) ListRules(ctx context.Context) ([]Rule, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/rules/list", nil, nil)
	if err != nil {
		return nil, err
	}

	var rules []Rule
	if err := json.Unmarshal(body, &rules); err != nil {
		return nil, NewParseError("failed to parse rules response", err)
	}
	return rules, nil
}

// SearchDevices returns devices whose name matches query.
func (c *Client) SearchDevices(ctx context.Context, query string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	body, err := c.do(ctx, http.MethodGet, "/api/devices/search", q, nil)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, NewParseError("failed to parse search response", err)
	}
	return results, nil
}

// CheckSchedule asks the server what runs at hh:mm and returns its message.
func (c *Client) CheckSchedule(ctx context.Context, hhmm string) (string, error) {
	q := url.Values{}
	q.Set("time", hhmm)
	body, err := c.do(ctx, http.MethodGet, "/api/schedule/check", q, nil)
	if err != nil {
		return "", err
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return "", NewParseError("failed to parse schedule response", err)
	}
	if res.Error != "" {
		return "", NewServerError(res.Error)
	}
	return res.Message, nil
}

// BulkOn turns every device on. The response body is ignored.
func (c *Client) BulkOn(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/bulk/on", nil, nil)
	return err
}

// BulkOff turns every device off. The response body is ignored.
func (c *Client) BulkOff(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/bulk/off", nil, nil)
	return err
}

// mutate performs a POST and interprets the {"status":"ok"} envelope.
func (c *Client) mutate(ctx context.Context, path string, q url.Values, payload []byte) (*Result, error) {
	body, err := c.do(ctx, http.MethodPost, path, q, payload)
	if err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, NewParseError("failed to parse response", err)
	}
	if !res.OK() {
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		return &res, NewServerError(msg)
	}
	return &res, nil
}

// do performs a single request and returns the body of a 2xx response.
// Non-2xx responses become HTTP errors carrying the server's "error" field
// when the body has one.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload []byte) ([]byte, error) {
	target := c.BaseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, serverMessage(body))
	}
	return body, nil
}

// serverMessage extracts {"error":...} or {"message":...} from an error body.
func serverMessage(body []byte) string {
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return ""
	}
	if res.Error != "" {
		return res.Error
	}
	return res.Message
}
