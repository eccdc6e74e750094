package controllers

import (
	"encoding/json"
	"net/http"

	"linkup_server/apperrors"

	"go.uber.org/zap"
)

// WriteJSON writes a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// WriteError maps an error onto its HTTP status and a {message} body.
// Unclassified errors come back as a generic 500 so nothing internal leaks.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperrors.StatusFor(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	WriteJSON(w, status, map[string]string{"message": apperrors.MessageFor(err)})
}
