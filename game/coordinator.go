package game

import (
	"context"
	"log"
	"sync"

	"colorgrid_server/models"

	"github.com/google/uuid"
)

// Stake is the coin amount moved between winner and loser on a decisive game.
const Stake = 200

// GameStore is the durable record of matches.
type GameStore interface {
	CreateGame(ctx context.Context, record models.GameRecord) error
	UpdateGameState(ctx context.Context, gameID string, grid [][]string, currentTurn string) error
	FinishGame(ctx context.Context, gameID string, grid [][]string, status, winner, result string) error
	GetGame(ctx context.Context, gameID string) (*models.GameRecord, error)
}

// UserStore looks up user records and applies aggregate stat increments.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	ApplyMatchOutcome(ctx context.Context, username string, coins, wins, losses, draws int) error
	AvatarURL(user *models.User) string
}

// WaitingStore is the durable mirror of the matchmaking queue.
type WaitingStore interface {
	Put(ctx context.Context, username, socketID string) error
	Delete(ctx context.Context, username string) error
	LoadAll(ctx context.Context) ([]models.WaitingPlayer, error)
}

// Coordinator owns the matchmaking queue and the active-session index. All
// mutations of either run under one mutex, giving the single-event-loop
// ownership the game logic assumes: in-memory state is always updated before
// any store call, and store calls never hold the lock.
type Coordinator struct {
	mu       sync.Mutex
	queue    *WaitingQueue
	sessions map[string]*Session
	// pairing holds the usernames of a pair whose game record write is in
	// flight: already withdrawn from the queue, not yet in a session. They
	// must not re-enter the queue until the pass resolves.
	pairing map[string]struct{}

	games   GameStore
	users   UserStore
	waiting WaitingStore
}

func NewCoordinator(games GameStore, users UserStore, waiting WaitingStore) *Coordinator {
	return &Coordinator{
		queue:    NewWaitingQueue(),
		sessions: make(map[string]*Session),
		pairing:  make(map[string]struct{}),
		games:    games,
		users:    users,
		waiting:  waiting,
	}
}

// Rehydrate loads previously-queued players from the durable store. Their
// connection handles stay nil until the player reconnects, which keeps them
// out of pairing; the sweeper withdraws them if they never come back.
func (c *Coordinator) Rehydrate(ctx context.Context) {
	players, err := c.waiting.LoadAll(ctx)
	if err != nil {
		log.Printf("Error loading waiting players: %v", err)
		return
	}
	c.mu.Lock()
	for _, p := range players {
		c.queue.Enqueue(p.Username, nil)
	}
	c.mu.Unlock()
	log.Printf("Loaded %d waiting players from store", len(players))
}

// HandleFindMatch enters username into matchmaking. Re-invoking refreshes the
// stored connection handle. A player already in a live game is left alone.
func (c *Coordinator) HandleFindMatch(ctx context.Context, username string, conn Conn) {
	c.mu.Lock()
	if _, midPairing := c.pairing[username]; midPairing || c.activePlayerLocked(username) {
		c.mu.Unlock()
		log.Printf("%s requested matchmaking while in or entering a live game, ignoring", username)
		return
	}
	size := c.queue.Enqueue(username, conn)
	c.mu.Unlock()

	conn.Send(EventMatchmakingStatus, MatchmakingStatusPayload{
		Status:    "queued",
		Username:  username,
		QueueSize: size,
	})

	if err := c.waiting.Put(ctx, username, conn.ID()); err != nil {
		log.Printf("Error persisting waiting player %s: %v", username, err)
	} else {
		c.mu.Lock()
		queued := c.queue.Contains(username)
		c.mu.Unlock()
		if !queued {
			// A pairing pass consumed the entry while the row was in
			// flight; drop the row it would otherwise resurrect.
			if derr := c.waiting.Delete(ctx, username); derr != nil {
				log.Printf("Error deleting waiting player %s: %v", username, derr)
			}
		}
	}

	c.TryPairing(ctx)
}

// HandleWithdraw removes username from the queue. No-op when absent.
func (c *Coordinator) HandleWithdraw(ctx context.Context, username string) {
	c.mu.Lock()
	removed := c.queue.Withdraw(username)
	c.mu.Unlock()
	if !removed {
		return
	}
	if err := c.waiting.Delete(ctx, username); err != nil {
		log.Printf("Error deleting waiting player %s: %v", username, err)
	}
	log.Printf("Removed %s from waiting players", username)
}

// TryPairing runs at most one pairing pass. Concurrent triggers are dropped:
// whatever queue state they reacted to is re-evaluated on the next trigger
// (enqueue or sweep).
func (c *Coordinator) TryPairing(ctx context.Context) {
	c.mu.Lock()
	if !c.queue.BeginMatching() {
		c.mu.Unlock()
		return
	}
	p1, p2, ok := c.queue.NextPair()
	if !ok {
		c.queue.EndMatching()
		c.mu.Unlock()
		return
	}
	// Both entries leave the queue now. On failure they are notified and not
	// re-queued; they must request matchmaking again. Until the pass
	// resolves they are marked mid-pairing so a find_match re-request
	// cannot slip them back into the queue during the record write.
	c.queue.Withdraw(p1.Username)
	c.queue.Withdraw(p2.Username)
	c.pairing[p1.Username] = struct{}{}
	c.pairing[p2.Username] = struct{}{}
	c.mu.Unlock()

	log.Printf("🎮 Matching players: %s vs %s", p1.Username, p2.Username)

	sess, avatars, err := c.createGame(ctx, p1, p2)

	c.mu.Lock()
	if err == nil {
		c.sessions[sess.ID] = sess
	}
	// The session is indexed before the mid-pairing marks clear, so there is
	// no instant at which either player is neither queued nor playing.
	delete(c.pairing, p1.Username)
	delete(c.pairing, p2.Username)
	c.queue.EndMatching()
	c.mu.Unlock()

	for _, username := range []string{p1.Username, p2.Username} {
		if derr := c.waiting.Delete(ctx, username); derr != nil {
			log.Printf("Error deleting waiting player %s: %v", username, derr)
		}
	}

	if err != nil {
		log.Printf("Error creating game for %s and %s: %v", p1.Username, p2.Username, err)
		failure := MatchmakingErrorPayload{Message: "Failed to create game, please try again"}
		p1.Conn.Send(EventMatchmakingError, failure)
		p2.Conn.Send(EventMatchmakingError, failure)
		return
	}

	for i := range sess.Players {
		me := sess.Players[i]
		opponent, _ := sess.Opponent(me.Username)
		if me.Conn == nil {
			continue
		}
		me.Conn.Send(EventGameStart, GameStartPayload{
			GameID:         sess.ID,
			CurrentTurn:    sess.CurrentTurn,
			PlayerColor:    me.Color,
			Opponent:       opponent.Username,
			OpponentColor:  opponent.Color,
			OpponentAvatar: avatars[opponent.Username],
		})
	}
	log.Printf("Game %s started with players %s and %s", sess.ID, p1.Username, p2.Username)
}

// createGame verifies both users, assigns colors, and writes the durable
// record before the session becomes visible.
func (c *Coordinator) createGame(ctx context.Context, p1, p2 *WaitingEntry) (*Session, map[string]string, error) {
	user1, err := c.users.GetUser(ctx, p1.Username)
	if err != nil {
		return nil, nil, err
	}
	user2, err := c.users.GetUser(ctx, p2.Username)
	if err != nil {
		return nil, nil, err
	}

	color1, color2 := AssignColors()
	sess := NewSession(uuid.NewString(),
		PlayerSlot{Username: p1.Username, Color: color1, Conn: p1.Conn},
		PlayerSlot{Username: p2.Username, Color: color2, Conn: p2.Conn},
	)

	record := models.GameRecord{
		GameID:          sess.ID,
		Player1Username: p1.Username,
		Player2Username: p2.Username,
		Player1Color:    color1,
		Player2Color:    color2,
		Grid:            sess.GridCopy(),
		CurrentTurn:     sess.CurrentTurn,
		Status:          models.GameStatusPlaying,
		CreatedAt:       sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if err := c.games.CreateGame(ctx, record); err != nil {
		return nil, nil, err
	}

	avatars := map[string]string{
		p1.Username: c.users.AvatarURL(user1),
		p2.Username: c.users.AvatarURL(user2),
	}
	return sess, avatars, nil
}

// HandleJoinGame attaches a (re)connecting player to an existing game and
// replies with the authoritative snapshot. Games no longer in memory are
// rebuilt from the durable record when still playing.
func (c *Coordinator) HandleJoinGame(ctx context.Context, username string, conn Conn, gameID string) {
	c.mu.Lock()
	sess, ok := c.sessions[gameID]
	if ok {
		if !sess.AttachConn(username, conn) {
			c.mu.Unlock()
			log.Printf("%s is not a player in game %s, ignoring join", username, gameID)
			return
		}
		snapshot := c.snapshotLocked(sess, username)
		c.mu.Unlock()
		c.sendSnapshot(ctx, conn, snapshot)
		log.Printf("Player %s joined existing game %s", username, gameID)
		return
	}
	c.mu.Unlock()

	record, err := c.games.GetGame(ctx, gameID)
	if err != nil {
		log.Printf("Error loading game %s for %s: %v", gameID, username, err)
		return
	}
	if record.Player1Username != username && record.Player2Username != username {
		log.Printf("%s is not a player in game %s, ignoring join", username, gameID)
		return
	}

	if record.Status == models.GameStatusPlaying {
		sess = sessionFromRecord(record)
		sess.AttachConn(username, conn)
		c.mu.Lock()
		// Another join may have raced the store read; the first one wins.
		if existing, exists := c.sessions[gameID]; exists {
			sess = existing
			sess.AttachConn(username, conn)
		} else {
			c.sessions[gameID] = sess
		}
		snapshot := c.snapshotLocked(sess, username)
		c.mu.Unlock()
		c.sendSnapshot(ctx, conn, snapshot)
		log.Printf("Player %s joined game %s from store", username, gameID)
		return
	}

	// Terminal game: serve the stored state read-only.
	opponent := record.Player2Username
	playerColor, opponentColor := record.Player1Color, record.Player2Color
	if username == record.Player2Username {
		opponent = record.Player1Username
		playerColor, opponentColor = record.Player2Color, record.Player1Color
	}
	c.sendSnapshot(ctx, conn, GameStatePayload{
		GameID:        record.GameID,
		Grid:          record.Grid,
		CurrentTurn:   record.CurrentTurn,
		Status:        record.Status,
		PlayerColor:   playerColor,
		Opponent:      opponent,
		OpponentColor: opponentColor,
		Winner:        record.Winner,
	})
}

func sessionFromRecord(record *models.GameRecord) *Session {
	sess := NewSession(record.GameID,
		PlayerSlot{Username: record.Player1Username, Color: record.Player1Color},
		PlayerSlot{Username: record.Player2Username, Color: record.Player2Color},
	)
	if len(record.Grid) == GridSize {
		sess.Grid = record.Grid
	}
	if record.CurrentTurn != "" {
		sess.CurrentTurn = record.CurrentTurn
	}
	return sess
}

// snapshotLocked builds a state snapshot for username. Caller holds the lock.
func (c *Coordinator) snapshotLocked(sess *Session, username string) GameStatePayload {
	me, _ := sess.slot(username)
	opponent, _ := sess.Opponent(username)
	return GameStatePayload{
		GameID:        sess.ID,
		Grid:          sess.GridCopy(),
		CurrentTurn:   sess.CurrentTurn,
		Status:        sess.Status,
		PlayerColor:   me.Color,
		Opponent:      opponent.Username,
		OpponentColor: opponent.Color,
		Winner:        sess.Winner,
	}
}

// sendSnapshot resolves the opponent's avatar best-effort and delivers the
// snapshot.
func (c *Coordinator) sendSnapshot(ctx context.Context, conn Conn, snapshot GameStatePayload) {
	if snapshot.Opponent != "" {
		if user, err := c.users.GetUser(ctx, snapshot.Opponent); err == nil {
			snapshot.OpponentAvatar = c.users.AvatarURL(user)
		} else {
			log.Printf("Error fetching opponent profile %s: %v", snapshot.Opponent, err)
		}
	}
	conn.Send(EventGameState, snapshot)
}

// HandleMove validates and applies a move. Illegal moves change nothing and
// produce no error event; the client is loosely synchronized and retries are
// expected.
func (c *Coordinator) HandleMove(ctx context.Context, username, gameID string, row, col int) {
	c.mu.Lock()
	sess, ok := c.sessions[gameID]
	if !ok {
		c.mu.Unlock()
		log.Printf("Move for unknown game %s, ignoring", gameID)
		return
	}
	outcome, accepted := sess.ApplyMove(username, row, col)
	if !accepted {
		c.mu.Unlock()
		log.Printf("Rejected move by %s in game %s", username, gameID)
		return
	}
	grid := sess.GridCopy()
	turn := sess.CurrentTurn
	var terminal *terminalState
	if outcome.GameOver {
		terminal = c.evictLocked(sess, models.ReasonBoardFull, outcome.Areas)
	}
	c.mu.Unlock()

	if terminal != nil {
		c.finishGame(ctx, terminal)
		return
	}

	sess.Broadcast(EventMoveMade, MoveMadePayload{
		GameID:      gameID,
		Grid:        grid,
		CurrentTurn: turn,
		LastMove:    LastMove{Row: row, Col: col, Player: username},
	})
	if err := c.games.UpdateGameState(ctx, gameID, grid, turn); err != nil {
		log.Printf("Error updating game %s: %v", gameID, err)
	}
}

// HandleForfeit ends a playing game in the opponent's favor. Terminal
// sessions ignore it.
func (c *Coordinator) HandleForfeit(ctx context.Context, username, gameID string) {
	c.mu.Lock()
	sess, ok := c.sessions[gameID]
	if !ok {
		c.mu.Unlock()
		log.Printf("Forfeit for unknown game %s, ignoring", gameID)
		return
	}
	_, accepted := sess.Forfeit(username)
	if !accepted {
		c.mu.Unlock()
		return
	}
	terminal := c.evictLocked(sess, models.ReasonForfeit, nil)
	c.mu.Unlock()

	log.Printf("Player %s forfeited game %s", username, gameID)
	c.finishGame(ctx, terminal)
}

// HandleDisconnect reacts to a dropped connection: a queued player is
// withdrawn, a playing participant forfeits. The conn pointer is compared so
// a reconnect that already replaced the handle is not punished for the old
// connection closing.
func (c *Coordinator) HandleDisconnect(ctx context.Context, username string, conn Conn) {
	if username == "" {
		return
	}

	c.mu.Lock()
	if entry, ok := c.queue.EntryFor(username); ok && entry.Conn == conn {
		c.queue.Withdraw(username)
		c.mu.Unlock()
		if err := c.waiting.Delete(ctx, username); err != nil {
			log.Printf("Error deleting waiting player %s: %v", username, err)
		}
		log.Printf("Removed %s from waiting queue due to disconnect", username)
		return
	}

	var gameID string
	for id, sess := range c.sessions {
		if sess.Status != models.GameStatusPlaying {
			continue
		}
		for i := range sess.Players {
			if sess.Players[i].Username == username && sess.Players[i].Conn == conn {
				gameID = id
			}
		}
	}
	c.mu.Unlock()

	if gameID != "" {
		log.Printf("Player %s disconnected from game %s, handling as forfeit", username, gameID)
		c.HandleForfeit(ctx, username, gameID)
	}
}

// terminalState captures everything the post-transition side effects need,
// so they can run outside the lock.
type terminalState struct {
	gameID  string
	status  string
	winner  string
	loser   string
	players [2]string
	grid    [][]string
	areas   map[string]int
	reason  string
	conns   [2]Conn
}

// evictLocked removes a now-terminal session from the index and captures its
// final state. Running under the lock guarantees the terminal side effects
// (stats, record) fire exactly once per game. Caller holds the lock.
func (c *Coordinator) evictLocked(sess *Session, reason string, areas map[string]int) *terminalState {
	delete(c.sessions, sess.ID)
	t := &terminalState{
		gameID:  sess.ID,
		status:  sess.Status,
		winner:  sess.Winner,
		players: [2]string{sess.Players[0].Username, sess.Players[1].Username},
		grid:    sess.GridCopy(),
		areas:   areas,
		reason:  reason,
		conns:   [2]Conn{sess.Players[0].Conn, sess.Players[1].Conn},
	}
	if t.winner != "" {
		if t.winner == t.players[0] {
			t.loser = t.players[1]
		} else {
			t.loser = t.players[0]
		}
	}
	return t
}

// finishGame broadcasts the terminal state, then best-effort persists the
// record and the per-player aggregates. Persistence failure never rolls back
// the in-memory outcome.
func (c *Coordinator) finishGame(ctx context.Context, t *terminalState) {
	payload := GameOverPayload{
		GameID: t.gameID,
		Winner: t.winner,
		Draw:   t.winner == "",
		Grid:   t.grid,
		Areas:  t.areas,
		Status: t.status,
		Reason: t.reason,
	}
	for _, conn := range t.conns {
		if conn != nil {
			conn.Send(EventGameOver, payload)
		}
	}

	result := models.GameResultWin
	if t.winner == "" {
		result = models.GameResultDraw
	}
	if err := c.games.FinishGame(ctx, t.gameID, t.grid, t.status, t.winner, result); err != nil {
		log.Printf("Error finishing game %s: %v", t.gameID, err)
	}

	if t.winner != "" {
		if err := c.users.ApplyMatchOutcome(ctx, t.winner, Stake, 1, 0, 0); err != nil {
			log.Printf("Error updating stats for %s: %v", t.winner, err)
		}
		if err := c.users.ApplyMatchOutcome(ctx, t.loser, -Stake, 0, 1, 0); err != nil {
			log.Printf("Error updating stats for %s: %v", t.loser, err)
		}
	} else {
		for _, username := range t.players {
			if err := c.users.ApplyMatchOutcome(ctx, username, 0, 0, 0, 1); err != nil {
				log.Printf("Error updating stats for %s: %v", username, err)
			}
		}
	}
}

// activePlayerLocked reports whether username plays in any live session.
// Caller holds the lock.
func (c *Coordinator) activePlayerLocked(username string) bool {
	for _, sess := range c.sessions {
		if sess.Status == models.GameStatusPlaying && sess.HasPlayer(username) {
			return true
		}
	}
	return false
}

// QueueSize returns the current number of queued players.
func (c *Coordinator) QueueSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// SessionCount returns the number of live sessions.
func (c *Coordinator) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
