package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"todoctl/internal/cache"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

var sample = []service.Todo{
	{ID: "12", Title: "buy milk"},
	{ID: "7", Title: "line one\nline two"},
	{ID: "3", Title: "   "},
}

func TestFormatTodos(t *testing.T) {
	var buf bytes.Buffer
	FormatTodos(&buf, sample, false)
	testutil.Golden(t, "list", buf.Bytes())
}

func TestFormatTodos_WithIDs(t *testing.T) {
	var buf bytes.Buffer
	FormatTodos(&buf, sample, true)
	testutil.Golden(t, "list_ids", buf.Bytes())
}

func TestFormatTodo_WideNumbers(t *testing.T) {
	var buf bytes.Buffer
	FormatTodo(&buf, 12345, service.Todo{Title: "x"})
	assert.Equal(t, "12345  x\n", buf.String())
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		res  cache.Result
		want string
	}{
		{"add uses server id", cache.Result{Kind: cache.KindAdd, ID: "tmp-x", Todo: service.Todo{ID: "9"}}, "added 9\n"},
		{"update", cache.Result{Kind: cache.KindUpdate, ID: "4", Todo: service.Todo{ID: "4"}}, "updated 4\n"},
		{"delete", cache.Result{Kind: cache.KindDelete, ID: "4"}, "deleted 4\n"},
		{"no id", cache.Result{Kind: cache.KindAdd}, "ok\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatResult(&buf, tt.res)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"", "(untitled)"},
		{" \t", "(untitled)"},
		{"a\r\nb", "a  b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTitle(tt.in), tt.in)
	}
}
