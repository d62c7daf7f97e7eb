// Package service defines the backend-agnostic interface for todo operations.
package service

import "context"

// Service defines the remote todo operations.
// Every call either returns the decoded result or an opaque error; callers
// do not distinguish between network failures and non-success statuses.
// Commands and the cache never import a backend directly.
type Service interface {
	// ListTodos returns the full todo collection in server order.
	ListTodos(ctx context.Context) ([]Todo, error)

	// CreateTodo creates a todo and returns it with its server-assigned ID.
	CreateTodo(ctx context.Context, title string) (Todo, error)

	// UpdateTodo replaces the title of a todo and returns the server's copy.
	UpdateTodo(ctx context.Context, id, title string) (Todo, error)

	// DeleteTodo deletes a todo.
	DeleteTodo(ctx context.Context, id string) error
}
