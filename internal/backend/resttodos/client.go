// Package resttodos implements the service.Service interface against a
// plain REST todo API:
//
//	GET    /todos       -> [{id, title}]
//	POST   /todos       {title} -> {id, title}
//	PUT    /todos/{id}  {title} -> {id, title}
//	DELETE /todos/{id}
//
// Every request carries the configured API key. There is no retry and no
// client-side timeout; any network error, non-2xx status or malformed body
// is reported as a single opaque error.
package resttodos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for cfg.BaseURL that authenticates with cfg.APIKey.
func New(cfg *config.Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL: %q (want http or https)", cfg.BaseURL)
	}
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Transport: Transport(cfg, nil)}), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Trailing slashes on baseURL are dropped so paths join cleanly.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Transport returns a traced round tripper that attaches cfg.APIKey, either
// as a bearer token or under cfg.APIKeyHeader. A nil base uses
// http.DefaultTransport.
func Transport(cfg *config.Config, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	var rt http.RoundTripper = otelhttp.NewTransport(base)
	if cfg.APIKey == "" {
		return rt
	}
	if cfg.APIKeyHeader == "" {
		return &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
			Base:   rt,
		}
	}
	return &headerTransport{name: cfg.APIKeyHeader, value: cfg.APIKey, base: rt}
}

type headerTransport struct {
	name  string
	value string
	base  http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(t.name, t.value)
	return t.base.RoundTrip(req)
}

// doRequest performs an HTTP request and returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

type titleBody struct {
	Title string `json:"title"`
}

// ListTodos implements service.Service.
func (c *Client) ListTodos(ctx context.Context) ([]service.Todo, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	var wire []wireTodo
	if err := decodeChecked(data, listSchema, &wire); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	result := make([]service.Todo, 0, len(wire))
	for _, w := range wire {
		result = append(result, w.todo())
	}
	return result, nil
}

// CreateTodo implements service.Service.
func (c *Client) CreateTodo(ctx context.Context, title string) (service.Todo, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/todos", titleBody{Title: title})
	if err != nil {
		return service.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	var w wireTodo
	if err := decodeChecked(data, todoSchema, &w); err != nil {
		return service.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return w.todo(), nil
}

// UpdateTodo implements service.Service.
func (c *Client) UpdateTodo(ctx context.Context, id, title string) (service.Todo, error) {
	data, err := c.doRequest(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), titleBody{Title: title})
	if err != nil {
		return service.Todo{}, fmt.Errorf("update todo %s: %w", id, err)
	}

	var w wireTodo
	if err := decodeChecked(data, todoSchema, &w); err != nil {
		return service.Todo{}, fmt.Errorf("update todo %s: %w", id, err)
	}
	return w.todo(), nil
}

// DeleteTodo implements service.Service. The response body is ignored.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}
