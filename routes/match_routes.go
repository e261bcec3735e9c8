package routes

import (
	"github.com/Kiransoodyall03/nightlife-app-sub000/controllers"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match reads under /api/matches
func RegisterMatchRoutes(r *mux.Router, matches *services.MatchService) {
	controller := controllers.NewMatchController(matches)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("", controller.GetMatches).Methods("GET")
	matchRouter.HandleFunc("/tally", controller.GetTally).Methods("GET")
}
