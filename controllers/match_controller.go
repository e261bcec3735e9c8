package controllers

import (
	"net/http"

	"github.com/Kiransoodyall03/nightlife-app-sub000/services"
	"github.com/Kiransoodyall03/nightlife-app-sub000/utils"
)

// MatchController handles HTTP requests for confirmed matches
type MatchController struct {
	Matches *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matches *services.MatchService) *MatchController {
	return &MatchController{Matches: matches}
}

// GetMatches handles GET /api/matches?groupId=
func (mc *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		http.Error(w, "groupId is required", http.StatusBadRequest)
		return
	}

	matches, err := mc.Matches.GetMatches(r.Context(), groupID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetTally handles GET /api/matches/tally?groupId=&locationId= and returns
// the raw tally whether or not it has matched yet
func (mc *MatchController) GetTally(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	locationID := r.URL.Query().Get("locationId")
	if groupID == "" || locationID == "" {
		http.Error(w, "groupId and locationId are required", http.StatusBadRequest)
		return
	}

	tally, err := mc.Matches.GetMatch(r.Context(), groupID, locationID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"tally": tally})
}
