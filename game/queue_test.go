package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueIsIdempotentPerUsername(t *testing.T) {
	q := NewWaitingQueue()
	first := newFakeConn("c1")
	second := newFakeConn("c2")

	assert.Equal(t, 1, q.Enqueue("alice", first))
	assert.Equal(t, 1, q.Enqueue("alice", second))
	assert.Equal(t, 1, q.Len())

	entry, ok := q.EntryFor("alice")
	require.True(t, ok)
	assert.Same(t, second, entry.Conn.(*fakeConn), "re-enqueue must refresh the connection handle")
}

func TestEnqueueKeepsPositionOnRefresh(t *testing.T) {
	q := NewWaitingQueue()
	q.Enqueue("alice", newFakeConn("c1"))
	q.Enqueue("bob", newFakeConn("c2"))
	q.Enqueue("alice", newFakeConn("c3"))

	p1, p2, ok := q.NextPair()
	require.True(t, ok)
	assert.Equal(t, "alice", p1.Username)
	assert.Equal(t, "bob", p2.Username)
}

func TestWithdraw(t *testing.T) {
	q := NewWaitingQueue()
	q.Enqueue("alice", newFakeConn("c1"))

	assert.True(t, q.Withdraw("alice"))
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Contains("alice"))

	// Withdrawing an absent player is not an error.
	assert.False(t, q.Withdraw("alice"))
	assert.False(t, q.Withdraw("nobody"))
}

func TestNextPairUsesInsertionOrder(t *testing.T) {
	q := NewWaitingQueue()
	q.Enqueue("alice", newFakeConn("c1"))
	q.Enqueue("bob", newFakeConn("c2"))
	q.Enqueue("carol", newFakeConn("c3"))

	p1, p2, ok := q.NextPair()
	require.True(t, ok)
	assert.Equal(t, "alice", p1.Username)
	assert.Equal(t, "bob", p2.Username)
}

func TestNextPairSkipsDeadConnectionsWithoutRemoving(t *testing.T) {
	q := NewWaitingQueue()
	dead := newFakeConn("c1")
	dead.live = false
	q.Enqueue("alice", dead)
	q.Enqueue("bob", newFakeConn("c2"))
	q.Enqueue("carol", nil) // rehydrated entry, no connection yet
	q.Enqueue("dave", newFakeConn("c4"))

	p1, p2, ok := q.NextPair()
	require.True(t, ok)
	assert.Equal(t, "bob", p1.Username)
	assert.Equal(t, "dave", p2.Username)

	// Skipped entries stay queued; only the sweeper removes them.
	assert.True(t, q.Contains("alice"))
	assert.True(t, q.Contains("carol"))
}

func TestNextPairNotEnoughEligible(t *testing.T) {
	q := NewWaitingQueue()
	q.Enqueue("alice", newFakeConn("c1"))
	q.Enqueue("bob", nil)

	_, _, ok := q.NextPair()
	assert.False(t, ok)
}

func TestMatchingFlagIsExclusive(t *testing.T) {
	q := NewWaitingQueue()

	require.True(t, q.BeginMatching())
	assert.False(t, q.BeginMatching(), "second pairing pass must be dropped")
	q.EndMatching()
	assert.True(t, q.BeginMatching())
}

func TestStale(t *testing.T) {
	q := NewWaitingQueue()
	dead := newFakeConn("c1")
	dead.live = false
	q.Enqueue("alice", dead)
	q.Enqueue("bob", newFakeConn("c2"))
	q.Enqueue("carol", nil)

	assert.ElementsMatch(t, []string{"alice", "carol"}, q.Stale())
}
