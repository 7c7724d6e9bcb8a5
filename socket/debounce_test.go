package socket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerSuppressesRepeatsInsideWindow(t *testing.T) {
	current := time.Unix(1000, 0)
	d := newDebouncer(2 * time.Second)
	d.now = func() time.Time { return current }

	assert.True(t, d.Allow("find_match"))
	assert.False(t, d.Allow("find_match"), "repeat inside the window is dropped")

	current = current.Add(1999 * time.Millisecond)
	assert.False(t, d.Allow("find_match"))

	current = current.Add(1 * time.Millisecond)
	assert.True(t, d.Allow("find_match"), "window expires at exactly its duration")
}

func TestDebouncerWindowsAreIndependentPerEventType(t *testing.T) {
	current := time.Unix(1000, 0)
	d := newDebouncer(2 * time.Second)
	d.now = func() time.Time { return current }

	assert.True(t, d.Allow("find_match"))
	assert.True(t, d.Allow("make_move"), "a different event type has its own window")
	assert.False(t, d.Allow("make_move"))
}

func TestDebouncerSuppressedCallDoesNotExtendWindow(t *testing.T) {
	current := time.Unix(1000, 0)
	d := newDebouncer(2 * time.Second)
	d.now = func() time.Time { return current }

	assert.True(t, d.Allow("make_move"))
	current = current.Add(1 * time.Second)
	assert.False(t, d.Allow("make_move"))
	current = current.Add(1 * time.Second)
	assert.True(t, d.Allow("make_move"), "the window runs from the accepted call, not the rejected one")
}
