package routes

import (
	"linkup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPostRoutes sets up routes for posts under /posts
func RegisterPostRoutes(r *mux.Router, controller *controllers.PostController) {
	postRouter := r.PathPrefix("/posts").Subrouter()
	postRouter.HandleFunc("", controller.HandleCreatePost).Methods("POST")
	postRouter.HandleFunc("/{id}/like", controller.HandleToggleLike).Methods("POST")
	postRouter.HandleFunc("/{id}/comment", controller.HandleCreateComment).Methods("POST")
	postRouter.HandleFunc("/{id}", controller.HandleDeletePost).Methods("DELETE")
}
