// Package service defines the backend-agnostic interface for todo operations.
package service

// Todo is a single todo item. ID is assigned by the remote service.
type Todo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
