package services

import (
	"context"
	"fmt"
	"time"

	"colorgrid_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// WaitingPlayerService mirrors the in-memory matchmaking queue into a durable
// table so a restarted process can rehydrate it.
type WaitingPlayerService struct {
	Dynamo *DynamoService
}

func waitingKey(username string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"username": &types.AttributeValueMemberS{Value: username},
	}
}

// Put upserts the queue entry for username. Re-queuing overwrites the stored
// socket id, matching the in-memory refresh semantics.
func (s *WaitingPlayerService) Put(ctx context.Context, username, socketID string) error {
	entry := models.WaitingPlayer{
		Username: username,
		SocketID: socketID,
		JoinedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Dynamo.PutItem(ctx, models.WaitingPlayersTable, entry); err != nil {
		return fmt.Errorf("failed to persist waiting player %s: %w", username, err)
	}
	return nil
}

// Delete removes the queue entry for username if present.
func (s *WaitingPlayerService) Delete(ctx context.Context, username string) error {
	if err := s.Dynamo.DeleteItem(ctx, models.WaitingPlayersTable, waitingKey(username)); err != nil {
		return fmt.Errorf("failed to delete waiting player %s: %w", username, err)
	}
	return nil
}

// LoadAll returns every stored queue entry, used once at startup.
func (s *WaitingPlayerService) LoadAll(ctx context.Context) ([]models.WaitingPlayer, error) {
	var players []models.WaitingPlayer
	if err := s.Dynamo.ScanAll(ctx, models.WaitingPlayersTable, "", nil, nil, &players); err != nil {
		return nil, fmt.Errorf("failed to load waiting players: %w", err)
	}
	return players, nil
}
