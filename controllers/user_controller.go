package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"colorgrid_server/services"

	"github.com/gorilla/mux"
)

// UserController serves public user profiles and the leaderboard.
type UserController struct {
	Users *services.UserProfileService
}

// NewUserController initializes the controller
func NewUserController(users *services.UserProfileService) *UserController {
	return &UserController{Users: users}
}

type publicProfile struct {
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	Coins          int    `json:"coins"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	Draws          int    `json:"draws"`
}

// HandleGetUser - public profile by username, never includes credentials
func (c *UserController) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := c.Users.GetUser(r.Context(), username)
	if err != nil {
		log.Printf("Error fetching user %s: %v", username, err)
		http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]publicProfile{"user": {
		Username:       user.Username,
		ProfilePicture: c.Users.AvatarURL(user),
		Coins:          user.Coins,
		Wins:           user.Wins,
		Losses:         user.Losses,
		Draws:          user.Draws,
	}})
}

const leaderboardLimit = 50

// HandleLeaderboard - users ordered by coins descending
func (c *UserController) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.Leaderboard(r.Context(), leaderboardLimit)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch leaderboard"}`, http.StatusInternalServerError)
		return
	}

	entries := make([]publicProfile, 0, len(users))
	for i := range users {
		entries = append(entries, publicProfile{
			Username:       users[i].Username,
			ProfilePicture: c.Users.AvatarURL(&users[i]),
			Coins:          users[i].Coins,
			Wins:           users[i].Wins,
			Losses:         users[i].Losses,
			Draws:          users[i].Draws,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
