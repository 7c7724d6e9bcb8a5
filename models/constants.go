package models

// Game Statuses
const (
	GameStatusPlaying  = "playing"
	GameStatusFinished = "finished"
	GameStatusForfeit  = "forfeit"
)

// Game Results
const (
	GameResultWin  = "win"
	GameResultDraw = "draw"
)

// Termination reasons reported in the game-over event
const (
	ReasonBoardFull = "board-full"
	ReasonForfeit   = "forfeit"
)
