package session

import (
	"sync"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*Store[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore[string](ttl)
	store.now = clock.Now
	return store, clock
}

func TestStore_PutGetExpire(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(time.Minute)
	store.Put(1, "draft")

	value, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "draft", value)

	_, ok = store.Get(2)
	assert.False(t, ok)

	clock.Advance(time.Minute)
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestStore_UpdateRefreshesExpiry(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(time.Minute)
	store.Put(1, "a")

	clock.Advance(50 * time.Second)
	ok := store.Update(1, func(v string) string { return v + "b" })
	require.True(t, ok)

	clock.Advance(50 * time.Second)
	value, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "ab", value)

	clock.Advance(time.Minute)
	assert.False(t, store.Update(1, func(v string) string { return v }))
	assert.False(t, store.Update(99, func(v string) string { return v }))
}

func TestStore_DeleteAndSweep(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(time.Minute)
	store.Put(1, "a")
	store.Put(2, "b")
	store.Delete(2)
	assert.Equal(t, 1, store.Len())

	clock.Advance(30 * time.Second)
	store.Put(3, "c")
	clock.Advance(40 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(3)
	assert.True(t, ok)
}

func TestStore_ScheduleSweep(t *testing.T) {
	t.Parallel()

	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	store := NewStore[int](time.Millisecond)
	store.Put(1, 1)

	require.NoError(t, store.ScheduleSweep(scheduler, "test", 10*time.Millisecond))
	scheduler.Start()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
