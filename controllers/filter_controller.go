package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Kiransoodyall03/nightlife-app-sub000/services"
	"github.com/Kiransoodyall03/nightlife-app-sub000/utils"
)

// FilterController handles HTTP requests for venue-category filters
type FilterController struct {
	Filters *services.FilterService
}

// NewFilterController creates a new FilterController instance
func NewFilterController(filters *services.FilterService) *FilterController {
	return &FilterController{Filters: filters}
}

// GetEffectiveFilters handles GET /api/filters/effective?userId=
func (fc *FilterController) GetEffectiveFilters(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	categories, err := fc.Filters.EffectiveFilters(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// PutPersonalFilter handles PUT /api/filters/personal
func (fc *FilterController) PutPersonalFilter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID     string   `json:"userId"`
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	filter, err := fc.Filters.PutPersonalFilter(r.Context(), request.UserID, request.Categories)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"filter": filter})
}

// PutGroupFilter handles PUT /api/filters/group
func (fc *FilterController) PutGroupFilter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RequesterID string   `json:"requesterId"`
		GroupID     string   `json:"groupId"`
		Categories  []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	filter, err := fc.Filters.PutGroupFilter(r.Context(), request.RequesterID, request.GroupID, request.Categories)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"filter": filter})
}
