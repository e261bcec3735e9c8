package utils

import (
	"encoding/json"
	"net/http"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteError maps a service error onto an HTTP status and a JSON body
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, apperrors.HTTPStatus(err), map[string]string{
		"error":   apperrors.KindOf(err).String(),
		"message": err.Error(),
	})
}
