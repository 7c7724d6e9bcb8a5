package routes

import (
	"colorgrid_server/controllers"
	"colorgrid_server/services"

	"github.com/gorilla/mux"
)

func RegisterUserRoutes(r *mux.Router, users *services.UserProfileService) {
	controller := controllers.NewUserController(users)

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/{username}", controller.HandleGetUser).Methods("GET")

	r.HandleFunc("/api/leaderboard", controller.HandleLeaderboard).Methods("GET")
}
