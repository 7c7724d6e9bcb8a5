package game

import (
	"testing"

	"colorgrid_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	colorRed  = "#FF6B6B"
	colorTeal = "#4ECDC4"
)

func newTestSession() *Session {
	return NewSession("game-1",
		PlayerSlot{Username: "alice", Color: colorRed},
		PlayerSlot{Username: "bob", Color: colorTeal},
	)
}

// fillGrid paints the session grid from rows of 'a' (first player),
// 'b' (second player) and '.' (empty), using the session's actual colors.
func fillGrid(s *Session, rows ...string) {
	for r, row := range rows {
		for c, ch := range row {
			switch ch {
			case 'a':
				s.Grid[r][c] = s.Players[0].Color
			case 'b':
				s.Grid[r][c] = s.Players[1].Color
			default:
				s.Grid[r][c] = ""
			}
		}
	}
}

func TestNewSessionStartsPlaying(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, models.GameStatusPlaying, s.Status)
	assert.Equal(t, "alice", s.CurrentTurn)
	require.Len(t, s.Grid, GridSize)
	for _, row := range s.Grid {
		require.Len(t, row, GridSize)
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}
}

func TestApplyMoveLegality(t *testing.T) {
	t.Run("accepted move sets color and flips turn", func(t *testing.T) {
		s := newTestSession()
		outcome, ok := s.ApplyMove("alice", 2, 3)
		require.True(t, ok)
		assert.Equal(t, colorRed, s.Grid[2][3])
		assert.Equal(t, "bob", s.CurrentTurn)
		assert.False(t, outcome.GameOver)
	})

	t.Run("move out of turn is a no-op", func(t *testing.T) {
		s := newTestSession()
		_, ok := s.ApplyMove("bob", 0, 0)
		assert.False(t, ok)
		assert.Empty(t, s.Grid[0][0])
		assert.Equal(t, "alice", s.CurrentTurn)
	})

	t.Run("occupied cell is a no-op", func(t *testing.T) {
		s := newTestSession()
		_, ok := s.ApplyMove("alice", 1, 1)
		require.True(t, ok)
		_, ok = s.ApplyMove("bob", 1, 1)
		assert.False(t, ok)
		assert.Equal(t, colorRed, s.Grid[1][1])
		assert.Equal(t, "bob", s.CurrentTurn)
	})

	t.Run("out of bounds is a no-op", func(t *testing.T) {
		s := newTestSession()
		for _, move := range [][2]int{{-1, 0}, {0, -1}, {GridSize, 0}, {0, GridSize}} {
			_, ok := s.ApplyMove("alice", move[0], move[1])
			assert.False(t, ok)
		}
		assert.Equal(t, "alice", s.CurrentTurn)
	})

	t.Run("non-player is a no-op", func(t *testing.T) {
		s := newTestSession()
		s.CurrentTurn = "mallory"
		_, ok := s.ApplyMove("mallory", 0, 0)
		assert.False(t, ok)
		assert.Empty(t, s.Grid[0][0])
	})

	t.Run("terminal session rejects moves", func(t *testing.T) {
		s := newTestSession()
		_, ok := s.Forfeit("alice")
		require.True(t, ok)
		_, ok2 := s.ApplyMove("bob", 0, 0)
		assert.False(t, ok2)
		assert.Empty(t, s.Grid[0][0])
	})
}

func TestResolutionLargestRegionWins(t *testing.T) {
	s := newTestSession()
	// Alice ends with one connected region of 13; Bob's 12 cells split into
	// two regions of 6.
	fillGrid(s,
		"aabbb",
		"aabbb",
		"aaaaa",
		"bbbaa",
		"bbba.",
	)
	s.CurrentTurn = "alice"

	outcome, ok := s.ApplyMove("alice", 4, 4)
	require.True(t, ok)
	require.True(t, outcome.GameOver)
	assert.Equal(t, "alice", outcome.Winner)
	assert.Equal(t, 13, outcome.Areas["alice"])
	assert.Equal(t, 6, outcome.Areas["bob"])
	assert.Equal(t, models.GameStatusFinished, s.Status)
	assert.Equal(t, "alice", s.Winner)
	assert.Empty(t, s.CurrentTurn)
}

func TestResolutionEqualAreasIsDraw(t *testing.T) {
	s := newTestSession()
	// Alice holds 13 cells but her largest region is 12 (one isolated cell
	// in the corner); Bob's 12 cells form a single region of 12.
	fillGrid(s,
		"aaaaa",
		"aaaaa",
		"aabbb",
		"bbbbb",
		"bbbb.",
	)
	s.CurrentTurn = "alice"

	outcome, ok := s.ApplyMove("alice", 4, 4)
	require.True(t, ok)
	require.True(t, outcome.GameOver)
	assert.Empty(t, outcome.Winner)
	assert.Equal(t, 12, outcome.Areas["alice"])
	assert.Equal(t, 12, outcome.Areas["bob"])
	assert.Equal(t, models.GameStatusFinished, s.Status)
	assert.Empty(t, s.Winner)
}

func TestForfeit(t *testing.T) {
	s := newTestSession()

	winner, ok := s.Forfeit("alice")
	require.True(t, ok)
	assert.Equal(t, "bob", winner)
	assert.Equal(t, models.GameStatusForfeit, s.Status)
	assert.Equal(t, "bob", s.Winner)

	// Terminal state is never re-entered.
	_, ok = s.Forfeit("bob")
	assert.False(t, ok)
	assert.Equal(t, "bob", s.Winner)
	assert.Equal(t, models.GameStatusForfeit, s.Status)
}

func TestAttachConnDoesNotTouchGameState(t *testing.T) {
	s := newTestSession()
	_, ok := s.ApplyMove("alice", 0, 0)
	require.True(t, ok)

	conn := newFakeConn("c1")
	require.True(t, s.AttachConn("alice", conn))
	assert.Same(t, conn, s.Players[0].Conn.(*fakeConn))
	assert.Equal(t, colorRed, s.Grid[0][0])
	assert.Equal(t, "bob", s.CurrentTurn)

	assert.False(t, s.AttachConn("mallory", conn))
}

func TestAssignColorsDistinct(t *testing.T) {
	for i := 0; i < 50; i++ {
		c1, c2 := AssignColors()
		assert.NotEqual(t, c1, c2)
		assert.Contains(t, colorPalette, c1)
		assert.Contains(t, colorPalette, c2)
	}
}

func TestGridCopyIsDetached(t *testing.T) {
	s := newTestSession()
	snapshot := s.GridCopy()
	_, ok := s.ApplyMove("alice", 0, 0)
	require.True(t, ok)
	assert.Empty(t, snapshot[0][0])
}
