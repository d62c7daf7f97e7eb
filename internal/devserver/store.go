package devserver

import (
	"strconv"
	"sync"

	"todoctl/internal/service"
)

// Store is an in-memory todo collection, newest first.
type Store struct {
	mu     sync.Mutex
	todos  []service.Todo
	nextID int
}

// NewStore creates a store holding seed in the given order.
func NewStore(seed ...service.Todo) *Store {
	s := &Store{nextID: 1}
	for _, t := range seed {
		s.todos = append(s.todos, t)
		if n, err := strconv.Atoi(t.ID); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	return s
}

// List returns a copy of all todos.
func (s *Store) List() []service.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Create stores a new todo at the front and returns it.
func (s *Store) Create(title string) service.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	todo := service.Todo{ID: strconv.Itoa(s.nextID), Title: title}
	s.nextID++
	s.todos = append([]service.Todo{todo}, s.todos...)
	return todo
}

// Update sets the title of an existing todo.
func (s *Store) Update(id, title string) (service.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.todos {
		if t.ID == id {
			s.todos[i].Title = title
			return s.todos[i], true
		}
	}
	return service.Todo{}, false
}

// Delete removes a todo and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.todos {
		if t.ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return true
		}
	}
	return false
}
