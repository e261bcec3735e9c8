package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/Kiransoodyall03/nightlife-app-sub000/config"
	"github.com/Kiransoodyall03/nightlife-app-sub000/routes"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize DynamoDB client and store
	dynamoClient := services.InitializeDynamoDBClient()
	store := &services.DynamoService{Client: dynamoClient}

	// Initialize services
	inviteService := &services.InviteService{Store: store}
	groupService := &services.GroupService{Store: store, Invites: inviteService}
	activeGroupService := &services.ActiveGroupService{Store: store}
	filterService := &services.FilterService{Store: store, ActiveGroups: activeGroupService}
	matchService := &services.MatchService{Store: store, Logger: logger.With("component", "match")}
	swipeService := &services.SwipeService{
		Store:        store,
		ActiveGroups: activeGroupService,
		Matches:      matchService,
		Limiter:      services.NewSwipeRateLimiter(cfg.SwipeWindow, cfg.SwipeBurst),
		Logger:       logger.With("component", "swipe"),
	}
	mediaService := &services.MediaService{Client: services.InitializeS3Client(), Bucket: cfg.S3Bucket}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Nightlife")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Register routes
	routes.RegisterGroupRoutes(r, groupService, inviteService, activeGroupService)
	routes.RegisterFilterRoutes(r, filterService)
	routes.RegisterSwipeRoutes(r, swipeService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterMediaRoutes(r, mediaService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	logger.Info("starting server", "port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
