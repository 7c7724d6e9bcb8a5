package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"colorgrid_server/services"

	"github.com/gorilla/mux"
)

// GameController serves the read-only game record endpoints.
type GameController struct {
	Games *services.GameRecordService
	Users *services.UserProfileService
}

// NewGameController initializes the controller
func NewGameController(games *services.GameRecordService, users *services.UserProfileService) *GameController {
	return &GameController{Games: games, Users: users}
}

type historyEntry struct {
	GameID                 string `json:"gameId"`
	Opponent               string `json:"opponent"`
	OpponentProfilePicture string `json:"opponentProfilePicture,omitempty"`
	Winner                 string `json:"winner,omitempty"`
	Result                 string `json:"result,omitempty"`
	Status                 string `json:"status"`
	CreatedAt              string `json:"createdAt"`
}

// HandleGetHistory - games where the user played either side, newest first
func (c *GameController) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	games, err := c.Games.GetGamesByUsername(r.Context(), username)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch game history"}`, http.StatusInternalServerError)
		return
	}

	history := make([]historyEntry, 0, len(games))
	for _, g := range games {
		opponent := g.Player2Username
		if g.Player2Username == username {
			opponent = g.Player1Username
		}

		avatar := ""
		if user, uerr := c.Users.GetUser(r.Context(), opponent); uerr == nil {
			avatar = c.Users.AvatarURL(user)
		}

		history = append(history, historyEntry{
			GameID:                 g.GameID,
			Opponent:               opponent,
			OpponentProfilePicture: avatar,
			Winner:                 g.Winner,
			Result:                 g.Result,
			Status:                 g.Status,
			CreatedAt:              g.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

type gamePlayer struct {
	Username       string `json:"username"`
	Color          string `json:"color"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type gameDetail struct {
	GameID    string       `json:"gameId"`
	Players   []gamePlayer `json:"players"`
	Grid      [][]string   `json:"grid"`
	Status    string       `json:"status"`
	Winner    string       `json:"winner,omitempty"`
	Result    string       `json:"result,omitempty"`
	CreatedAt string       `json:"createdAt"`
}

// HandleGetGame - fetch one game record by id
func (c *GameController) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	game, err := c.Games.GetGame(r.Context(), gameID)
	if err != nil {
		log.Printf("Error fetching game %s: %v", gameID, err)
		http.Error(w, `{"error": "Game not found"}`, http.StatusNotFound)
		return
	}

	players := make([]gamePlayer, 0, 2)
	for _, p := range []struct{ username, color string }{
		{game.Player1Username, game.Player1Color},
		{game.Player2Username, game.Player2Color},
	} {
		avatar := "/default-avatar.png"
		if user, uerr := c.Users.GetUser(r.Context(), p.username); uerr == nil {
			avatar = c.Users.AvatarURL(user)
		}
		players = append(players, gamePlayer{Username: p.username, Color: p.color, ProfilePicture: avatar})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gameDetail{
		GameID:    game.GameID,
		Players:   players,
		Grid:      game.Grid,
		Status:    game.Status,
		Winner:    game.Winner,
		Result:    game.Result,
		CreatedAt: game.CreatedAt,
	})
}

type finishedGame struct {
	GameID          string `json:"gameId"`
	Player1Username string `json:"player1Username"`
	Player2Username string `json:"player2Username"`
	Winner          string `json:"winner,omitempty"`
	Result          string `json:"result,omitempty"`
	Status          string `json:"status"`
}

// HandleListFinished - all terminally resolved games
func (c *GameController) HandleListFinished(w http.ResponseWriter, r *http.Request) {
	games, err := c.Games.GetFinishedGames(r.Context())
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch games"}`, http.StatusInternalServerError)
		return
	}

	results := make([]finishedGame, 0, len(games))
	for _, g := range games {
		results = append(results, finishedGame{
			GameID:          g.GameID,
			Player1Username: g.Player1Username,
			Player2Username: g.Player2Username,
			Winner:          g.Winner,
			Result:          g.Result,
			Status:          g.Status,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
