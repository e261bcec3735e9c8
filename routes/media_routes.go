package routes

import (
	"github.com/Kiransoodyall03/nightlife-app-sub000/controllers"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up routes for group picture URLs under /api/media
func RegisterMediaRoutes(r *mux.Router, media *services.MediaService) {
	controller := controllers.NewMediaController(media)

	mediaRouter := r.PathPrefix("/api/media").Subrouter()

	mediaRouter.HandleFunc("/uploadURL", controller.GetUploadURL).Methods("POST")
	mediaRouter.HandleFunc("/readURL", controller.GetReadURL).Methods("GET")
}
