package commands

import (
	"errors"
	"fmt"
	"strconv"

	"todoctl/internal/cache"
)

// ErrRefRequired indicates no todo reference was provided.
var ErrRefRequired = errors.New("todo reference required")

// ParsePosition parses a 1-based position as printed by the list command.
func ParsePosition(arg string) (int, error) {
	if arg == "" {
		return 0, ErrRefRequired
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid todo reference: %s", arg)
		}
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid todo reference: %s", arg)
	}
	return n, nil
}

// resolveRef turns the first argument into a todo ID. With byID the
// argument is the ID itself; otherwise it is a position in the loaded cache.
func resolveRef(c *cache.Cache, args []string, byID bool) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", ErrRefRequired
	}
	if byID {
		return args[0], nil
	}

	n, err := ParsePosition(args[0])
	if err != nil {
		return "", err
	}
	todos := c.Snapshot()
	if n < 1 || n > len(todos) {
		return "", fmt.Errorf("todo number out of range: %d", n)
	}
	return todos[n-1].ID, nil
}
