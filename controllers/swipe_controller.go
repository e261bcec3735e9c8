package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Kiransoodyall03/nightlife-app-sub000/models"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"
	"github.com/Kiransoodyall03/nightlife-app-sub000/utils"
)

// SwipeController handles HTTP requests for recording swipes
type SwipeController struct {
	Swipes *services.SwipeService
}

// NewSwipeController creates a new SwipeController instance
func NewSwipeController(swipes *services.SwipeService) *SwipeController {
	return &SwipeController{Swipes: swipes}
}

// RecordSwipe handles POST /api/swipes
func (sc *SwipeController) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID     string               `json:"userId"`
		LocationID string               `json:"locationId"`
		Direction  string               `json:"direction"`
		Venue      models.VenueSnapshot `json:"venue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := sc.Swipes.Record(r.Context(), request.UserID, request.LocationID, request.Direction, request.Venue)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, result)
}

// GetGroupSwipes handles GET /api/swipes/group?groupId=
func (sc *SwipeController) GetGroupSwipes(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		http.Error(w, "groupId is required", http.StatusBadRequest)
		return
	}

	swipes, err := sc.Swipes.GetGroupSwipes(r.Context(), groupID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"swipes": swipes})
}
