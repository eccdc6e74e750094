package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"linkup_server/apperrors"
	"linkup_server/middleware"
	"linkup_server/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PostAPI is what the controller needs from the post service.
type PostAPI interface {
	CreatePost(ctx context.Context, actorID, content, image string) (*models.Post, error)
	DeletePost(ctx context.Context, actorID, postID string) error
	ToggleLike(ctx context.Context, actorID, postID string) (*models.Post, bool, error)
	CreateComment(ctx context.Context, actorID, postID, content string) (*models.Comment, error)
}

// PostController handles post, like and comment endpoints
type PostController struct {
	Posts  PostAPI
	Logger *zap.Logger
}

// NewPostController initializes the controller
func NewPostController(posts PostAPI, logger *zap.Logger) *PostController {
	return &PostController{Posts: posts, Logger: logger}
}

// HandleCreatePost - POST /posts
func (c *PostController) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	var request struct {
		Content string `json:"content"`
		Image   string `json:"image,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteError(w, c.Logger, apperrors.NewInvalidRequest("Invalid request body"))
		return
	}

	post, err := c.Posts.CreatePost(r.Context(), actor.UserID, request.Content, request.Image)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, post)
}

// HandleDeletePost - DELETE /posts/{id}
func (c *PostController) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	postID := mux.Vars(r)["id"]
	if err := c.Posts.DeletePost(r.Context(), actor.UserID, postID); err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// HandleToggleLike - POST /posts/{id}/like
func (c *PostController) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	postID := mux.Vars(r)["id"]
	post, added, err := c.Posts.ToggleLike(r.Context(), actor.UserID, postID)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"post":  post,
		"added": added,
	})
}

// HandleCreateComment - POST /posts/{id}/comment
func (c *PostController) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		WriteError(w, c.Logger, apperrors.NewUnauthenticated(""))
		return
	}

	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteError(w, c.Logger, apperrors.NewInvalidRequest("Invalid request body"))
		return
	}

	postID := mux.Vars(r)["id"]
	comment, err := c.Posts.CreateComment(r.Context(), actor.UserID, postID, request.Content)
	if err != nil {
		WriteError(w, c.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, comment)
}
