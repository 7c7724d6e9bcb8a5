package game

// Outbound event names. One canonical event per state transition.
const (
	EventMatchmakingStatus = "matchmaking_status"
	EventMatchmakingError  = "matchmaking_error"
	EventGameStart         = "game_start"
	EventGameState         = "game_state"
	EventMoveMade          = "move_made"
	EventGameOver          = "game_over"
)

// MatchmakingStatusPayload confirms a queue transition to one player.
type MatchmakingStatusPayload struct {
	Status    string `json:"status"` // "queued" or "canceled"
	Username  string `json:"username"`
	QueueSize int    `json:"queueSize,omitempty"`
}

// MatchmakingErrorPayload tells a paired player that game creation failed.
type MatchmakingErrorPayload struct {
	Message string `json:"message"`
}

// GameStartPayload announces a new match to one of its players.
type GameStartPayload struct {
	GameID         string `json:"gameId"`
	CurrentTurn    string `json:"currentTurn"`
	PlayerColor    string `json:"playerColor"`
	Opponent       string `json:"opponent"`
	OpponentColor  string `json:"opponentColor"`
	OpponentAvatar string `json:"opponentAvatar,omitempty"`
}

// GameStatePayload is the full authoritative snapshot sent on (re)join.
type GameStatePayload struct {
	GameID         string     `json:"gameId"`
	Grid           [][]string `json:"grid"`
	CurrentTurn    string     `json:"currentTurn"`
	Status         string     `json:"status"`
	PlayerColor    string     `json:"playerColor"`
	Opponent       string     `json:"opponent"`
	OpponentColor  string     `json:"opponentColor"`
	OpponentAvatar string     `json:"opponentAvatar,omitempty"`
	Winner         string     `json:"winner,omitempty"`
}

// LastMove records the coordinates of the move that produced an update.
type LastMove struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player string `json:"player"`
}

// MoveMadePayload carries the updated grid after an accepted move.
type MoveMadePayload struct {
	GameID      string     `json:"gameId"`
	Grid        [][]string `json:"grid"`
	CurrentTurn string     `json:"currentTurn"`
	LastMove    LastMove   `json:"lastMove"`
}

// GameOverPayload announces a terminal game to both players.
type GameOverPayload struct {
	GameID string         `json:"gameId"`
	Winner string         `json:"winner,omitempty"`
	Draw   bool           `json:"draw"`
	Grid   [][]string     `json:"grid"`
	Areas  map[string]int `json:"areas,omitempty"` // username -> largest region, board-full games only
	Status string         `json:"status"`
	Reason string         `json:"reason"` // "board-full" or "forfeit"
}
