package routes

import (
	"github.com/Kiransoodyall03/nightlife-app-sub000/controllers"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up routes for swipe recording under /api/swipes
func RegisterSwipeRoutes(r *mux.Router, swipes *services.SwipeService) {
	controller := controllers.NewSwipeController(swipes)

	swipeRouter := r.PathPrefix("/api/swipes").Subrouter()

	swipeRouter.HandleFunc("", controller.RecordSwipe).Methods("POST")
	swipeRouter.HandleFunc("/group", controller.GetGroupSwipes).Methods("GET")
}
