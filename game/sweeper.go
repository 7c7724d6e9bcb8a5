package game

import (
	"context"
	"log"
	"time"

	"colorgrid_server/models"
)

// SweepInterval is how often stale connections are pruned.
const SweepInterval = 10 * time.Second

// RunSweeper prunes stale queue entries and abandoned sessions on a fixed
// period until ctx is canceled.
func (c *Coordinator) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep withdraws queue entries whose connection is gone and forfeits playing
// sessions on behalf of a participant whose connection is gone (the live
// opponent wins, exactly as with an explicit forfeit). Afterwards a pairing
// attempt runs in case the queue can now be served.
func (c *Coordinator) Sweep(ctx context.Context) {
	c.mu.Lock()
	stale := c.queue.Stale()
	for _, username := range stale {
		c.queue.Withdraw(username)
	}

	type abandoned struct {
		gameID   string
		username string
	}
	var dead []abandoned
	for id, sess := range c.sessions {
		if sess.Status != models.GameStatusPlaying {
			continue
		}
		for i := range sess.Players {
			p := sess.Players[i]
			if p.Conn == nil || !p.Conn.IsLive() {
				dead = append(dead, abandoned{gameID: id, username: p.Username})
				break
			}
		}
	}
	c.mu.Unlock()

	for _, username := range stale {
		if err := c.waiting.Delete(ctx, username); err != nil {
			log.Printf("Error deleting waiting player %s: %v", username, err)
		}
	}
	if len(stale) > 0 {
		log.Printf("Removed %d disconnected players from waiting queue", len(stale))
	}

	for _, a := range dead {
		log.Printf("Player %s is not live in game %s, forfeiting on their behalf", a.username, a.gameID)
		c.HandleForfeit(ctx, a.username, a.gameID)
	}

	c.TryPairing(ctx)
}
