package game

import "time"

// WaitingEntry is one player's pending request for an opponent.
type WaitingEntry struct {
	Username   string
	Conn       Conn
	EnqueuedAt time.Time
}

// WaitingQueue holds players waiting for an opponent in insertion order.
// It carries no lock of its own; the coordinator serializes access. The
// matching flag prevents a re-entrant pairing pass, not parallel threads.
type WaitingQueue struct {
	entries  map[string]*WaitingEntry
	order    []string
	matching bool
}

func NewWaitingQueue() *WaitingQueue {
	return &WaitingQueue{entries: make(map[string]*WaitingEntry)}
}

// Enqueue adds username to the queue, or refreshes the connection handle if
// the player is already queued (client reconnected while waiting). The queue
// position is kept on refresh. Returns the queue size.
func (q *WaitingQueue) Enqueue(username string, conn Conn) int {
	if entry, ok := q.entries[username]; ok {
		entry.Conn = conn
		return len(q.order)
	}
	q.entries[username] = &WaitingEntry{
		Username:   username,
		Conn:       conn,
		EnqueuedAt: time.Now(),
	}
	q.order = append(q.order, username)
	return len(q.order)
}

// Withdraw removes username from the queue if present.
func (q *WaitingQueue) Withdraw(username string) bool {
	if _, ok := q.entries[username]; !ok {
		return false
	}
	delete(q.entries, username)
	for i, u := range q.order {
		if u == username {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// NextPair returns the first two entries with live connections, in queue
// order, without removing them. Entries with absent or dead connections are
// skipped but kept; the sweeper decides when they are truly stale.
func (q *WaitingQueue) NextPair() (*WaitingEntry, *WaitingEntry, bool) {
	var pair []*WaitingEntry
	for _, username := range q.order {
		entry := q.entries[username]
		if entry.Conn == nil || !entry.Conn.IsLive() {
			continue
		}
		pair = append(pair, entry)
		if len(pair) == 2 {
			return pair[0], pair[1], true
		}
	}
	return nil, nil, false
}

// BeginMatching claims the single pairing slot. Returns false if a pairing
// pass is already running; the caller must drop the attempt (the next queue
// change re-triggers evaluation).
func (q *WaitingQueue) BeginMatching() bool {
	if q.matching {
		return false
	}
	q.matching = true
	return true
}

// EndMatching releases the pairing slot.
func (q *WaitingQueue) EndMatching() {
	q.matching = false
}

// Contains reports whether username is queued.
func (q *WaitingQueue) Contains(username string) bool {
	_, ok := q.entries[username]
	return ok
}

// Len returns the number of queued players, live or not.
func (q *WaitingQueue) Len() int {
	return len(q.order)
}

// Stale returns the usernames whose connection is absent or no longer live.
func (q *WaitingQueue) Stale() []string {
	var stale []string
	for _, username := range q.order {
		entry := q.entries[username]
		if entry.Conn == nil || !entry.Conn.IsLive() {
			stale = append(stale, username)
		}
	}
	return stale
}

// EntryFor returns the queue entry for username, if any.
func (q *WaitingQueue) EntryFor(username string) (*WaitingEntry, bool) {
	entry, ok := q.entries[username]
	return entry, ok
}
