package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"colorgrid_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// GameRecordService owns the durable match records. Writes are best-effort
// from the game core's point of view: the in-memory session stays
// authoritative while a game is live.
type GameRecordService struct {
	Dynamo *DynamoService
}

func gameKey(gameID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"gameId": &types.AttributeValueMemberS{Value: gameID},
	}
}

// CreateGame writes the initial record for a freshly paired match.
func (s *GameRecordService) CreateGame(ctx context.Context, record models.GameRecord) error {
	if err := s.Dynamo.PutItem(ctx, models.GamesTable, record); err != nil {
		return fmt.Errorf("failed to create game %s: %w", record.GameID, err)
	}
	return nil
}

// UpdateGameState persists the grid and turn after an accepted move.
func (s *GameRecordService) UpdateGameState(ctx context.Context, gameID string, grid [][]string, currentTurn string) error {
	gridAttr, err := attributevalue.Marshal(grid)
	if err != nil {
		return fmt.Errorf("failed to marshal grid: %w", err)
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.GamesTable,
		"SET grid = :grid, currentTurn = :turn",
		gameKey(gameID),
		map[string]types.AttributeValue{
			":grid": gridAttr,
			":turn": &types.AttributeValueMemberS{Value: currentTurn},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", gameID, err)
	}
	return nil
}

// FinishGame records the terminal state of a match.
func (s *GameRecordService) FinishGame(ctx context.Context, gameID string, grid [][]string, status, winner, result string) error {
	gridAttr, err := attributevalue.Marshal(grid)
	if err != nil {
		return fmt.Errorf("failed to marshal grid: %w", err)
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.GamesTable,
		"SET grid = :grid, #st = :status, winner = :winner, #res = :result REMOVE currentTurn",
		gameKey(gameID),
		map[string]types.AttributeValue{
			":grid":   gridAttr,
			":status": &types.AttributeValueMemberS{Value: status},
			":winner": &types.AttributeValueMemberS{Value: winner},
			":result": &types.AttributeValueMemberS{Value: result},
		},
		map[string]string{
			"#st":  "status",
			"#res": "result",
		},
	)
	if err != nil {
		return fmt.Errorf("failed to finish game %s: %w", gameID, err)
	}
	return nil
}

// GetGame retrieves a single game record by id.
func (s *GameRecordService) GetGame(ctx context.Context, gameID string) (*models.GameRecord, error) {
	item, err := s.Dynamo.GetItem(ctx, models.GamesTable, gameKey(gameID))
	if err != nil {
		return nil, err
	}

	var record models.GameRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameID, err)
	}
	return &record, nil
}

// GetGamesByUsername fetches games where username played either side, newest
// first.
func (s *GameRecordService) GetGamesByUsername(ctx context.Context, username string) ([]models.GameRecord, error) {
	var games []models.GameRecord

	expressionValues := map[string]types.AttributeValue{
		":username": &types.AttributeValueMemberS{Value: username},
	}

	for _, index := range []struct {
		name      string
		condition string
	}{
		{"player1Username-index", "player1Username = :username"},
		{"player2Username-index", "player2Username = :username"},
	} {
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.GamesTable, index.name, index.condition, expressionValues, nil, 100)
		if err != nil {
			log.Printf("❌ Error querying %s: %v", index.name, err)
			return nil, fmt.Errorf("failed to fetch games: %w", err)
		}

		for _, item := range items {
			var record models.GameRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				log.Printf("❌ Error unmarshalling game from %s: %v", index.name, err)
				continue
			}
			games = append(games, record)
		}
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt > games[j].CreatedAt
	})

	log.Printf("Found %d games for username: %s", len(games), username)
	return games, nil
}

// GetFinishedGames returns all terminally resolved games.
func (s *GameRecordService) GetFinishedGames(ctx context.Context) ([]models.GameRecord, error) {
	var games []models.GameRecord
	err := s.Dynamo.ScanAll(ctx, models.GamesTable,
		"#st = :finished",
		map[string]types.AttributeValue{
			":finished": &types.AttributeValueMemberS{Value: models.GameStatusFinished},
		},
		map[string]string{"#st": "status"},
		&games,
	)
	if err != nil {
		return nil, err
	}
	return games, nil
}
