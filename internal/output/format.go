// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todoctl/internal/cache"
	"todoctl/internal/service"
)

// FormatTodo formats a todo line.
// Format: "{N:>4}  {TITLE}\n" (4-wide right-aligned number, two spaces, title)
func FormatTodo(w io.Writer, num int, todo service.Todo) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(todo.Title))
}

// FormatTodoWithID formats a todo line with its ID column.
// Format: "{N:>4}  {ID}  {TITLE}\n"
func FormatTodoWithID(w io.Writer, num int, todo service.Todo) {
	fmt.Fprintf(w, "%4d  %s  %s\n", num, todo.ID, normalizeTitle(todo.Title))
}

// FormatTodos formats every todo, numbered from 1.
func FormatTodos(w io.Writer, todos []service.Todo, withIDs bool) {
	for i, todo := range todos {
		if withIDs {
			FormatTodoWithID(w, i+1, todo)
		} else {
			FormatTodo(w, i+1, todo)
		}
	}
}

// FormatResult formats the outcome of a committed mutation.
// Format: "{verb} {ID}\n", or "ok\n" when the server returned no ID.
func FormatResult(w io.Writer, res cache.Result) {
	id := res.Todo.ID
	if id == "" {
		id = res.ID
	}
	if id == "" {
		fmt.Fprintln(w, "ok")
		return
	}
	fmt.Fprintf(w, "%s %s\n", verb(res.Kind), id)
}

func verb(k cache.Kind) string {
	switch k {
	case cache.KindAdd:
		return "added"
	case cache.KindUpdate:
		return "updated"
	case cache.KindDelete:
		return "deleted"
	}
	return string(k)
}

// normalizeTitle normalizes a todo title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
