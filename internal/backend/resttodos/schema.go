package resttodos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todoctl/internal/service"
)

const todoSchemaJSON = `{
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id": {"type": ["string", "integer"]},
    "title": {"type": "string"}
  }
}`

const listSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title"],
    "properties": {
      "id": {"type": ["string", "integer"]},
      "title": {"type": "string"}
    }
  }
}`

var (
	todoSchema = jsonschema.MustCompileString("todo.json", todoSchemaJSON)
	listSchema = jsonschema.MustCompileString("todos.json", listSchemaJSON)
)

// wireTodo accepts numeric IDs, which some hosted mock APIs return.
type wireTodo struct {
	ID    string
	Title string
}

func (w wireTodo) todo() service.Todo {
	return service.Todo{ID: w.ID, Title: w.Title}
}

// decodeChecked validates body against schema and decodes it into target.
func decodeChecked(body []byte, schema *jsonschema.Schema, target any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("unexpected response shape: %s", firstCause(err))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// firstCause returns the innermost validation message.
func firstCause(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}

// UnmarshalJSON implements json.Unmarshaler for string or numeric IDs.
func (w *wireTodo) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Title string          `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Title = raw.Title
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		w.ID = s
		return nil
	}
	var n int64
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("invalid todo id: %s", raw.ID)
	}
	w.ID = strconv.FormatInt(n, 10)
	return nil
}
