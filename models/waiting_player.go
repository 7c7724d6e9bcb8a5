package models

// WaitingPlayer is the durable mirror of a matchmaking queue entry. It exists
// so a restarted process can rehydrate the queue; the in-memory queue is
// authoritative while the process runs.
type WaitingPlayer struct {
	Username string `dynamodbav:"username" json:"username"`
	SocketID string `dynamodbav:"socketId,omitempty" json:"socketId,omitempty"`
	JoinedAt string `dynamodbav:"joinedAt" json:"joinedAt"`
}

// WaitingPlayersTable is the DynamoDB table name for queued players
const WaitingPlayersTable = "ColorGridWaitingPlayers"
