package cache

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plan struct {
	Name   string    `json:"name"`
	Points []float64 `json:"points"`
}

// fakeClock lets tests move time forward by hand
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache()
	c.now = clock.now
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache()

	want := plan{Name: "field", Points: []float64{1, 2, 3}}
	require.NoError(t, c.Set("a", want, time.Minute, "traverse"))

	var got plan
	found, err := c.Get("a", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	found, err = c.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache()
	require.NoError(t, c.Set("a", plan{Name: "field"}, time.Minute, "traverse"))
	assert.False(t, c.IsStale("a"))

	clock.advance(2 * time.Minute)
	assert.True(t, c.IsStale("a"))

	var got plan
	found, err := c.Get("a", &got)
	require.NoError(t, err)
	assert.False(t, found, "expired entries are not served")

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.StaleEntries)

	assert.Equal(t, 1, c.CleanupStale())
	assert.Empty(t, c.Keys())
}

func TestCache_SetRejectsUnencodable(t *testing.T) {
	c, _ := newTestCache()
	assert.Error(t, c.Set("a", make(chan int), time.Minute, "traverse"))
}

func TestCache_DeleteClearStats(t *testing.T) {
	c, clock := newTestCache()
	require.NoError(t, c.Set("a", 1, time.Minute, "traverse"))
	clock.advance(time.Second)
	require.NoError(t, c.Set("b", 2, time.Hour, "orthodrom"))

	stats := c.Stats()
	assert.Equal(t, 2, stats.FreshEntries)
	assert.True(t, stats.OldestEntry.Before(stats.NewestEntry))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())

	c.Delete("a")
	assert.Equal(t, []string{"b"}, c.Keys())

	c.Clear()
	assert.Empty(t, c.Keys())
}

func TestCache_PeriodicCleanupStopsWithContext(t *testing.T) {
	c, clock := newTestCache()
	require.NoError(t, c.Set("a", 1, time.Minute, "traverse"))
	clock.advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartPeriodicCleanup(ctx, 5*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return len(c.Keys()) == 0 }, time.Second, 5*time.Millisecond)
}

// syncBuffer is a bytes.Buffer safe for a logger writing from another goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCache_PeriodicCleanupRecoversFromPanic(t *testing.T) {
	c := NewCache()
	c.now = func() time.Time { panic("clock failure") }

	var out syncBuffer
	logger := slog.New(slog.NewJSONHandler(&out, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartPeriodicCleanup(ctx, time.Millisecond, logger)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "recovered from panic")
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "clock failure")
}

func TestHashKey(t *testing.T) {
	a, err := HashKey("traverse", plan{Name: "field", Points: []float64{1, 2}})
	require.NoError(t, err)
	b, err := HashKey("traverse", plan{Name: "field", Points: []float64{1, 2}})
	require.NoError(t, err)
	c, err := HashKey("traverse", plan{Name: "field", Points: []float64{2, 1}})
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = HashKey(make(chan int))
	assert.Error(t, err)
}
