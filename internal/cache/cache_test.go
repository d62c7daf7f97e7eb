package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/service"
)

func seed(c *Cache, todos []service.Todo) {
	c.replaceAt(c.Epoch(), todos)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New()
	seed(c, []service.Todo{{ID: "1", Title: "a"}})

	snap := c.Snapshot()
	snap[0].Title = "changed"

	got, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)
}

func TestSeedMarksLoaded(t *testing.T) {
	c := New()
	assert.False(t, c.Loaded())

	seed(c, nil)

	assert.True(t, c.Loaded())
	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Snapshot())
}

func TestBeginCapturesPriorCollection(t *testing.T) {
	c := New()
	seed(c, []service.Todo{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}})
	epoch := c.Epoch()

	before := c.begin(func(items []service.Todo) []service.Todo {
		return items[1:]
	})

	assert.Equal(t, []service.Todo{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}, before)
	assert.Equal(t, []service.Todo{{ID: "2", Title: "b"}}, c.Snapshot())
	assert.Equal(t, epoch+1, c.Epoch())

	c.restore(before)
	assert.Equal(t, before, c.Snapshot())
}

func TestReplaceAtRejectsOlderEpoch(t *testing.T) {
	c := New()
	epoch := c.Epoch()
	c.begin(func(items []service.Todo) []service.Todo {
		return append(items, service.Todo{ID: "tmp-x", Title: "x"})
	})

	ok := c.replaceAt(epoch, []service.Todo{{ID: "1", Title: "a"}})

	assert.False(t, ok)
	assert.Equal(t, []service.Todo{{ID: "tmp-x", Title: "x"}}, c.Snapshot())
	assert.True(t, c.replaceAt(c.Epoch(), nil))
	assert.Equal(t, 0, c.Len())
}
