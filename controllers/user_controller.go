package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"linkup_server/apperrors"
	"linkup_server/middleware"
	"linkup_server/models"

	"go.uber.org/zap"
)

// UserAPI is what the controller needs from the user service.
type UserAPI interface {
	UpdateProfile(ctx context.Context, actorID string, updates map[string]interface{}) (*models.UserProfile, error)
}

// UserController handles profile endpoints
type UserController struct {
	Users  UserAPI
	Logger *zap.Logger
}

// NewUserController initializes the controller
func NewUserController(users UserAPI, logger *zap.Logger) *UserController {
	return &UserController{Users: users, Logger: logger}
}

// HandleUpdateProfile - PUT /users/profile
func (c *UserController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		WriteError(w, c.Logger, apperrors.NewInvalidRequest("Invalid request body"))
		return
	}

	profile, err := c.Users.UpdateProfile(r.Context(), actor.UserID, updates)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}
