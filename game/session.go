package game

import (
	"math/rand"
	"time"

	"colorgrid_server/models"
)

// GridSize is the board edge length for every match.
const GridSize = 5

// colorPalette is the fixed palette colors are drawn from, two per match
// without replacement.
var colorPalette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEEAD", "#D4A5A5"}

// PlayerSlot binds one participant to their assigned color and live
// connection handle.
type PlayerSlot struct {
	Username string
	Color    string
	Conn     Conn
}

// Session is the in-memory authoritative state of one match. Its fields are
// mutated only through its own methods, and the coordinator serializes all
// calls, so the session itself carries no lock.
type Session struct {
	ID          string
	Players     [2]PlayerSlot
	Grid        [][]string // "" marks an empty cell
	CurrentTurn string
	Status      string
	Winner      string
	CreatedAt   time.Time
}

// MoveOutcome describes an accepted move.
type MoveOutcome struct {
	Row, Col int
	GameOver bool
	Winner   string // empty on a draw when GameOver is true
	Areas    map[string]int
}

// NewSession creates a playing session with an empty grid. The first player
// moves first, matching the order the two entries were paired in.
func NewSession(id string, p1, p2 PlayerSlot) *Session {
	return &Session{
		ID:          id,
		Players:     [2]PlayerSlot{p1, p2},
		Grid:        NewEmptyGrid(),
		CurrentTurn: p1.Username,
		Status:      models.GameStatusPlaying,
		CreatedAt:   time.Now(),
	}
}

// NewEmptyGrid returns a GridSize x GridSize grid of empty cells.
func NewEmptyGrid() [][]string {
	grid := make([][]string, GridSize)
	for r := range grid {
		grid[r] = make([]string, GridSize)
	}
	return grid
}

// AssignColors draws two distinct colors from the palette.
func AssignColors() (string, string) {
	perm := rand.Perm(len(colorPalette))
	return colorPalette[perm[0]], colorPalette[perm[1]]
}

// ApplyMove applies a move for username at (row, col). Illegal moves (wrong
// turn, occupied cell, out of bounds, terminal session) are rejected silently:
// the second return is false and nothing changes. When the move fills the
// board the session resolves and becomes finished.
func (s *Session) ApplyMove(username string, row, col int) (MoveOutcome, bool) {
	if s.Status != models.GameStatusPlaying {
		return MoveOutcome{}, false
	}
	if s.CurrentTurn != username {
		return MoveOutcome{}, false
	}
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return MoveOutcome{}, false
	}
	if s.Grid[row][col] != "" {
		return MoveOutcome{}, false
	}

	slot, ok := s.slot(username)
	if !ok {
		return MoveOutcome{}, false
	}

	s.Grid[row][col] = slot.Color
	outcome := MoveOutcome{Row: row, Col: col}

	if s.isFull() {
		winner, areas := s.resolve()
		s.Status = models.GameStatusFinished
		s.Winner = winner
		s.CurrentTurn = ""
		outcome.GameOver = true
		outcome.Winner = winner
		outcome.Areas = areas
	} else {
		opponent, _ := s.Opponent(username)
		s.CurrentTurn = opponent.Username
	}
	return outcome, true
}

// Forfeit ends a playing session in the opponent's favor. Returns the winner
// username, or false if the session is already terminal.
func (s *Session) Forfeit(username string) (string, bool) {
	if s.Status != models.GameStatusPlaying {
		return "", false
	}
	opponent, ok := s.Opponent(username)
	if !ok {
		return "", false
	}
	s.Status = models.GameStatusForfeit
	s.Winner = opponent.Username
	s.CurrentTurn = ""
	return opponent.Username, true
}

// AttachConn replaces a (re)connecting player's handle without touching game
// state. Returns false when username is not a participant.
func (s *Session) AttachConn(username string, conn Conn) bool {
	for i := range s.Players {
		if s.Players[i].Username == username {
			s.Players[i].Conn = conn
			return true
		}
	}
	return false
}

// Opponent returns the other player's slot.
func (s *Session) Opponent(username string) (PlayerSlot, bool) {
	for i := range s.Players {
		if s.Players[i].Username != username {
			return s.Players[i], true
		}
	}
	return PlayerSlot{}, false
}

// HasPlayer reports whether username participates in this session.
func (s *Session) HasPlayer(username string) bool {
	_, ok := s.slot(username)
	return ok
}

// GridCopy returns a snapshot of the grid safe to hand to outbound events,
// which are serialized on another goroutine.
func (s *Session) GridCopy() [][]string {
	grid := make([][]string, len(s.Grid))
	for r := range s.Grid {
		grid[r] = append([]string(nil), s.Grid[r]...)
	}
	return grid
}

// Broadcast sends an event to both players' connections.
func (s *Session) Broadcast(event string, payload interface{}) {
	for i := range s.Players {
		if s.Players[i].Conn != nil {
			s.Players[i].Conn.Send(event, payload)
		}
	}
}

func (s *Session) slot(username string) (PlayerSlot, bool) {
	for i := range s.Players {
		if s.Players[i].Username == username {
			return s.Players[i], true
		}
	}
	return PlayerSlot{}, false
}

func (s *Session) isFull() bool {
	for r := range s.Grid {
		for c := range s.Grid[r] {
			if s.Grid[r][c] == "" {
				return false
			}
		}
	}
	return true
}

// resolve decides the winner of a full board: each player's largest connected
// region of their own color, strictly larger wins, equal is a draw.
func (s *Session) resolve() (string, map[string]int) {
	areas := make(map[string]int, 2)
	for i := range s.Players {
		p := s.Players[i]
		occupancy := make([][]bool, len(s.Grid))
		for r := range s.Grid {
			occupancy[r] = make([]bool, len(s.Grid[r]))
			for c := range s.Grid[r] {
				occupancy[r][c] = s.Grid[r][c] == p.Color
			}
		}
		areas[p.Username] = MaxConnectedArea(occupancy)
	}

	p1, p2 := s.Players[0], s.Players[1]
	switch {
	case areas[p1.Username] > areas[p2.Username]:
		return p1.Username, areas
	case areas[p2.Username] > areas[p1.Username]:
		return p2.Username, areas
	default:
		return "", areas
	}
}
