package routes

import (
	"linkup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for notifications under /notifications
func RegisterNotificationRoutes(r *mux.Router, controller *controllers.NotificationController) {
	notificationRouter := r.PathPrefix("/notifications").Subrouter()
	notificationRouter.HandleFunc("/{id}/read", controller.HandleMarkAsRead).Methods("PUT")
	notificationRouter.HandleFunc("/{id}", controller.HandleDelete).Methods("DELETE")
	notificationRouter.HandleFunc("", controller.HandleList).Methods("GET")
}
