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

// ConnectionAPI is what the controller needs from the connection service.
type ConnectionAPI interface {
	SendRequest(ctx context.Context, actor *models.UserProfile, recipientID string) (*models.ConnectionRequest, error)
	Accept(ctx context.Context, actorID, requestID string) (*models.ConnectionRequest, error)
	Reject(ctx context.Context, actorID, requestID string) (*models.ConnectionRequest, error)
	ListIncoming(ctx context.Context, actorID string) ([]models.RequestWithProfile, error)
	ListConnections(ctx context.Context, actor *models.UserProfile) ([]models.PublicProfile, error)
	Remove(ctx context.Context, actorID, otherID string) error
	Status(ctx context.Context, actor *models.UserProfile, otherID string) (*models.ConnectionStatus, error)
}

// ConnectionController handles the connection ledger endpoints
type ConnectionController struct {
	Connections ConnectionAPI
	Logger      *zap.Logger
}

// NewConnectionController initializes the controller
func NewConnectionController(connections ConnectionAPI, logger *zap.Logger) *ConnectionController {
	return &ConnectionController{Connections: connections, Logger: logger}
}

// HandleSendRequest - POST /connections/request/{userId}
func (c *ConnectionController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	recipientID := mux.Vars(r)["userId"]
	request, err := c.Connections.SendRequest(r.Context(), actor, recipientID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, request)
}

// HandleAccept - PUT /connections/accept/{requestId}
func (c *ConnectionController) HandleAccept(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	requestID := mux.Vars(r)["requestId"]
	request, err := c.Connections.Accept(r.Context(), actor.UserID, requestID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, request)
}

// HandleReject - PUT /connections/reject/{requestId}
func (c *ConnectionController) HandleReject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	requestID := mux.Vars(r)["requestId"]
	request, err := c.Connections.Reject(r.Context(), actor.UserID, requestID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, request)
}

// HandleListRequests - GET /connections/requests
func (c *ConnectionController) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	requests, err := c.Connections.ListIncoming(r.Context(), actor.UserID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, requests)
}

// HandleListConnections - GET /connections
func (c *ConnectionController) HandleListConnections(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	connections, err := c.Connections.ListConnections(r.Context(), actor)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, connections)
}

// HandleRemove - DELETE /connections/{userId}
func (c *ConnectionController) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	otherID := mux.Vars(r)["userId"]
	if err := c.Connections.Remove(r.Context(), actor.UserID, otherID); err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Connection removed successfully"})
}

// HandleStatus - GET /connections/status/{userId}
func (c *ConnectionController) HandleStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	otherID := mux.Vars(r)["userId"]
	status, err := c.Connections.Status(r.Context(), actor, otherID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}
