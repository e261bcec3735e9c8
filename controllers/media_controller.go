package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Kiransoodyall03/nightlife-app-sub000/services"
	"github.com/Kiransoodyall03/nightlife-app-sub000/utils"
)

// MediaController hands out presigned URLs for group pictures
type MediaController struct {
	Media *services.MediaService
}

// NewMediaController creates a new MediaController instance
func NewMediaController(media *services.MediaService) *MediaController {
	return &MediaController{Media: media}
}

// GetUploadURL handles POST /api/media/uploadURL
func (mc *MediaController) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.FileName == "" || request.FileType == "" {
		http.Error(w, "fileName and fileType are required", http.StatusBadRequest)
		return
	}

	url, key, err := mc.Media.GenerateUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "pictureRef": key})
}

// GetReadURL handles GET /api/media/readURL?key=
func (mc *MediaController) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := mc.Media.GenerateReadURL(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"readUrl": url})
}
