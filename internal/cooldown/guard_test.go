package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuardBlocksWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	g := New(store, 10*time.Second)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return base }

	assert.False(t, g.IsBlocked("device-1"), "fresh device should not be blocked")

	g.Record("device-1")

	cases := []struct {
		delta   time.Duration
		blocked bool
	}{
		{0, true},
		{5 * time.Second, true},
		{10*time.Second - time.Millisecond, true},
		{10 * time.Second, false},
		{time.Minute, false},
	}
	for _, tc := range cases {
		g.now = func() time.Time { return base.Add(tc.delta) }
		assert.Equal(t, tc.blocked, g.IsBlocked("device-1"), "delta %v", tc.delta)
	}
}

func TestGuardIsPerDevice(t *testing.T) {
	g := New(NewMemoryStore(), 10*time.Second)
	g.Record("device-1")

	assert.True(t, g.IsBlocked("device-1"))
	assert.False(t, g.IsBlocked("device-2"))
}

func TestRecordOverwrites(t *testing.T) {
	store := NewMemoryStore()
	g := New(store, 10*time.Second)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return base }
	g.Record("device-1")

	// A second submission after the window restarts the cooldown.
	g.now = func() time.Time { return base.Add(15 * time.Second) }
	assert.False(t, g.IsBlocked("device-1"))
	g.Record("device-1")

	g.now = func() time.Time { return base.Add(20 * time.Second) }
	assert.True(t, g.IsBlocked("device-1"))
}

func TestClearUnblocks(t *testing.T) {
	store := NewMemoryStore()
	g := New(store, time.Minute)
	g.Record("device-1")
	assert.True(t, g.IsBlocked("device-1"))

	store.Clear("device-1")
	assert.False(t, g.IsBlocked("device-1"))
}

func TestZeroWindowFallsBackToDefault(t *testing.T) {
	g := New(NewMemoryStore(), 0)
	assert.Equal(t, DefaultWindow, g.Window())
}
