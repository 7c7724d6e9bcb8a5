package routes

import (
	"colorgrid_server/controllers"
	"colorgrid_server/services"

	"github.com/gorilla/mux"
)

func RegisterGameRoutes(r *mux.Router, games *services.GameRecordService, users *services.UserProfileService) {
	controller := controllers.NewGameController(games, users)

	gameRouter := r.PathPrefix("/api/games").Subrouter()
	gameRouter.HandleFunc("/history/{username}", controller.HandleGetHistory).Methods("GET")
	gameRouter.HandleFunc("/{id}", controller.HandleGetGame).Methods("GET")
	gameRouter.HandleFunc("", controller.HandleListFinished).Methods("GET")
}
