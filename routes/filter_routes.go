package routes

import (
	"github.com/Kiransoodyall03/nightlife-app-sub000/controllers"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"

	"github.com/gorilla/mux"
)

// RegisterFilterRoutes sets up routes for filter operations under /api/filters
func RegisterFilterRoutes(r *mux.Router, filters *services.FilterService) {
	controller := controllers.NewFilterController(filters)

	filterRouter := r.PathPrefix("/api/filters").Subrouter()

	filterRouter.HandleFunc("/effective", controller.GetEffectiveFilters).Methods("GET")
	filterRouter.HandleFunc("/personal", controller.PutPersonalFilter).Methods("PUT")
	filterRouter.HandleFunc("/group", controller.PutGroupFilter).Methods("PUT")
}
