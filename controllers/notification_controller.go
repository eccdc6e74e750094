package controllers

import (
	"context"
	"net/http"

	"linkup_server/apperrors"
	"linkup_server/middleware"
	"linkup_server/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NotificationAPI is what the controller needs from the notification service.
type NotificationAPI interface {
	List(ctx context.Context, recipientID string) ([]models.NotificationWithProfile, error)
	MarkAsRead(ctx context.Context, actorID, notificationID string) (*models.Notification, error)
	Delete(ctx context.Context, actorID, notificationID string) error
}

// NotificationController handles the notification endpoints
type NotificationController struct {
	Notifications NotificationAPI
	Logger        *zap.Logger
}

// NewNotificationController initializes the controller
func NewNotificationController(notifications NotificationAPI, logger *zap.Logger) *NotificationController {
	return &NotificationController{Notifications: notifications, Logger: logger}
}

// HandleList - GET /notifications
func (c *NotificationController) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	notifications, err := c.Notifications.List(r.Context(), actor.UserID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, notifications)
}

// HandleMarkAsRead - PUT /notifications/{id}/read
func (c *NotificationController) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	notificationID := mux.Vars(r)["id"]
	notification, err := c.Notifications.MarkAsRead(r.Context(), actor.UserID, notificationID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, notification)
}

// HandleDelete - DELETE /notifications/{id}
func (c *NotificationController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	notificationID := mux.Vars(r)["id"]
	if err := c.Notifications.Delete(r.Context(), actor.UserID, notificationID); err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted successfully"})
}
