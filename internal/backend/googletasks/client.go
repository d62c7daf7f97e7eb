// Package googletasks implements the service.Service interface on top of a
// single Google Tasks list. Completed, hidden and deleted tasks are not
// listed.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

const (
	// DefaultListID is the special ID for the user's default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second
)

// Client implements service.Service using the Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a client for cfg.GoogleList.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	return NewWithHTTPClient(ctx, httpClient, cfg.GoogleList)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options, such as option.WithEndpoint, are passed to the tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	if listID == "" {
		listID = DefaultListID
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: listID}, nil
}

// ListTodos returns the open tasks of the list in API order.
func (c *Client) ListTodos(ctx context.Context) ([]service.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []service.Todo{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, toTodo(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTodo inserts a task at the top of the list.
func (c *Client) CreateTodo(ctx context.Context, title string) (service.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	task, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Todo{}, wrapError(err)
	}
	return toTodo(task), nil
}

// UpdateTodo patches the title of a task.
func (c *Client) UpdateTodo(ctx context.Context, id, title string) (service.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	task, err := c.svc.Tasks.Patch(c.listID, id, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Todo{}, wrapError(err)
	}
	return toTodo(task), nil
}

// DeleteTodo deletes a task. Deleting a task that no longer exists succeeds.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do()
	if err != nil && !isStatus(err, http.StatusNotFound) {
		return wrapError(err)
	}
	return nil
}

func toTodo(task *tasks.Task) service.Todo {
	return service.Todo{ID: task.Id, Title: task.Title}
}

func isStatus(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if isStatus(err, http.StatusUnauthorized) || isStatus(err, http.StatusForbidden) {
		return fmt.Errorf("token expired or revoked (run: todoctl login)")
	}
	if isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("not found")
	}
	return err
}
