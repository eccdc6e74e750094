package routes

import (
	"linkup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterConnectionRoutes sets up routes for the connection ledger under /connections
func RegisterConnectionRoutes(r *mux.Router, controller *controllers.ConnectionController) {
	connectionRouter := r.PathPrefix("/connections").Subrouter()
	connectionRouter.HandleFunc("/request/{userId}", controller.HandleSendRequest).Methods("POST")
	connectionRouter.HandleFunc("/accept/{requestId}", controller.HandleAccept).Methods("PUT")
	connectionRouter.HandleFunc("/reject/{requestId}", controller.HandleReject).Methods("PUT")
	connectionRouter.HandleFunc("/requests", controller.HandleListRequests).Methods("GET")
	connectionRouter.HandleFunc("/status/{userId}", controller.HandleStatus).Methods("GET")
	connectionRouter.HandleFunc("/{userId}", controller.HandleRemove).Methods("DELETE")
	connectionRouter.HandleFunc("", controller.HandleListConnections).Methods("GET")
}
