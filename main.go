package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"colorgrid_server/game"
	"colorgrid_server/routes"
	"colorgrid_server/services"
	"colorgrid_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	gameRecordService := &services.GameRecordService{Dynamo: dynamoService}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	waitingPlayerService := &services.WaitingPlayerService{Dynamo: dynamoService}

	// Initialize the game coordinator and rehydrate any queued players from
	// a previous run; their connections stay not-live until they reconnect.
	coordinator := game.NewCoordinator(gameRecordService, userProfileService, waitingPlayerService)
	coordinator.Rehydrate(context.Background())
	go coordinator.RunSweeper(context.Background(), game.SweepInterval)

	// Initialize the websocket gateway
	gateway := socket.NewGateway(coordinator)

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to ColorGrid")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Websocket endpoint for matchmaking and live games
	r.HandleFunc("/ws", gateway.ServeWS)

	// Register routes
	routes.RegisterGameRoutes(r, gameRecordService, userProfileService)
	routes.RegisterUserRoutes(r, userProfileService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
