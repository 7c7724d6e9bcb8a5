package models

// GameRecord is the durable record of a single match. The in-memory session is
// authoritative while the game is live; this record trails it and becomes the
// source of truth once the game is terminal.
type GameRecord struct {
	GameID          string     `dynamodbav:"gameId" json:"gameId"`
	Player1Username string     `dynamodbav:"player1Username" json:"player1Username"`
	Player2Username string     `dynamodbav:"player2Username" json:"player2Username"`
	Player1Color    string     `dynamodbav:"player1Color" json:"player1Color"`
	Player2Color    string     `dynamodbav:"player2Color" json:"player2Color"`
	Grid            [][]string `dynamodbav:"grid" json:"grid"` // "" marks an empty cell
	CurrentTurn     string     `dynamodbav:"currentTurn,omitempty" json:"currentTurn,omitempty"`
	Status          string     `dynamodbav:"status" json:"status"`
	Winner          string     `dynamodbav:"winner,omitempty" json:"winner,omitempty"`
	Result          string     `dynamodbav:"result,omitempty" json:"result,omitempty"` // "win" or "draw"
	CreatedAt       string     `dynamodbav:"createdAt" json:"createdAt"`
}

// GamesTable is the DynamoDB table name for game records
const GamesTable = "ColorGridGames"
