package routes

import (
	"linkup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up routes for profiles under /users
func RegisterUserRoutes(r *mux.Router, controller *controllers.UserController) {
	userRouter := r.PathPrefix("/users").Subrouter()
	userRouter.HandleFunc("/profile", controller.HandleUpdateProfile).Methods("PUT")
}
