// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"todoctl/internal/service"
)

// ErrNotFound is returned when a todo is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	todos  []service.Todo
	nextID int
	calls  map[string]int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Block, when set, is received from before a call returns. Tests use
	// it to observe the speculative state while a call is in flight.
	Block chan struct{}
}

// NewFakeService creates a new FakeService holding the given todos.
func NewFakeService(todos ...service.Todo) *FakeService {
	fs := &FakeService{
		calls:  make(map[string]int),
		nextID: 1,
	}
	fs.todos = append(fs.todos, todos...)
	for _, t := range todos {
		if n, err := strconv.Atoi(t.ID); err == nil && n >= fs.nextID {
			fs.nextID = n + 1
		}
	}
	return fs
}

// AddTodo appends a todo to the fake service without counting a call.
func (f *FakeService) AddTodo(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, service.Todo{ID: id, Title: title})
}

// Todos returns a copy of the stored todos.
func (f *FakeService) Todos() []service.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Todo, len(f.todos))
	copy(result, f.todos)
	return result
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *FakeService) wait(ctx context.Context) error {
	if f.Block == nil {
		return nil
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]service.Todo, error) {
	f.record("ListTodos")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Todos(), nil
}

// CreateTodo implements service.Service. New todos are prepended.
func (f *FakeService) CreateTodo(ctx context.Context, title string) (service.Todo, error) {
	f.record("CreateTodo")
	if err := f.wait(ctx); err != nil {
		return service.Todo{}, err
	}
	if f.CreateErr != nil {
		return service.Todo{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	todo := service.Todo{ID: strconv.Itoa(f.nextID), Title: title}
	f.nextID++
	f.todos = append([]service.Todo{todo}, f.todos...)
	return todo, nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id, title string) (service.Todo, error) {
	f.record("UpdateTodo")
	if err := f.wait(ctx); err != nil {
		return service.Todo{}, err
	}
	if f.UpdateErr != nil {
		return service.Todo{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i].Title = title
			return f.todos[i], nil
		}
	}
	return service.Todo{}, ErrNotFound
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	f.record("DeleteTodo")
	if err := f.wait(ctx); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return nil
}
