package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", 42)
	got, ok := c.Get("key")
	require.True(t, ok)
	require.Equal(t, 42, got)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)

	c.SetTTL("key", "value", 10*time.Millisecond)
	_, ok := c.Get("key")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("key")
	require.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "old")
	c.Set("key", "new")
	got, ok := c.Get("key")
	require.True(t, ok)
	require.Equal(t, "new", got)
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", 1)
	c.Delete("key")
	_, ok := c.Get("key")
	require.False(t, ok)
}

func TestFlush(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()

	_, ok := c.Get("a")
	require.False(t, ok)
	_, ok = c.Get("b")
	require.False(t, ok)
}
