package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"colorgrid_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService reads user records and applies aggregate match stats.
// Registration, login and password handling belong to the auth service and
// never pass through here.
type UserProfileService struct {
	Dynamo *DynamoService
}

func userKey(username string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"username": &types.AttributeValueMemberS{Value: username},
	}
}

// GetUser retrieves a user record by username.
func (s *UserProfileService) GetUser(ctx context.Context, username string) (*models.User, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UsersTable, userKey(username))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", username, err)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", username, err)
	}
	return &user, nil
}

// ApplyMatchOutcome atomically increments the user's coins and win/loss/draw
// counters. Called exactly once per terminal match per player.
func (s *UserProfileService) ApplyMatchOutcome(ctx context.Context, username string, coins, wins, losses, draws int) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.UsersTable,
		"ADD coins :coins, wins :wins, losses :losses, draws :draws",
		userKey(username),
		map[string]types.AttributeValue{
			":coins":  &types.AttributeValueMemberN{Value: strconv.Itoa(coins)},
			":wins":   &types.AttributeValueMemberN{Value: strconv.Itoa(wins)},
			":losses": &types.AttributeValueMemberN{Value: strconv.Itoa(losses)},
			":draws":  &types.AttributeValueMemberN{Value: strconv.Itoa(draws)},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", username, err)
	}
	log.Printf("Applied match outcome for %s (coins %+d, w/l/d %d/%d/%d)", username, coins, wins, losses, draws)
	return nil
}

// AvatarURL resolves the stored avatar reference to something a client can
// render: S3 object keys become presigned read URLs, absolute paths and full
// URLs pass through, and a missing reference falls back to the default.
func (s *UserProfileService) AvatarURL(user *models.User) string {
	if user == nil || user.ProfilePicture == "" {
		return "/default-avatar.png"
	}
	ref := user.ProfilePicture
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	url, err := GenerateReadURL(ref)
	if err != nil {
		log.Printf("Error presigning avatar for %s: %v", user.Username, err)
		return "/default-avatar.png"
	}
	return url
}

// Leaderboard returns up to limit users ordered by coins descending.
func (s *UserProfileService) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	if err := s.Dynamo.ScanAll(ctx, models.UsersTable, "", nil, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Coins != users[j].Coins {
			return users[i].Coins > users[j].Coins
		}
		return users[i].Username < users[j].Username
	})

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
