package routes

import (
	"github.com/Kiransoodyall03/nightlife-app-sub000/controllers"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"

	"github.com/gorilla/mux"
)

// RegisterGroupRoutes sets up routes for group lifecycle, invites and
// activation under /api/groups
func RegisterGroupRoutes(r *mux.Router, groups *services.GroupService, invites *services.InviteService, activeGroups *services.ActiveGroupService) {
	controller := controllers.NewGroupController(groups, invites, activeGroups)

	groupRouter := r.PathPrefix("/api/groups").Subrouter()

	groupRouter.HandleFunc("", controller.CreateGroup).Methods("POST")
	groupRouter.HandleFunc("", controller.ListGroups).Methods("GET")
	groupRouter.HandleFunc("/join", controller.JoinGroup).Methods("POST")
	groupRouter.HandleFunc("/active", controller.ListActive).Methods("GET")
	groupRouter.HandleFunc("/{groupId}", controller.GetGroup).Methods("GET")
	groupRouter.HandleFunc("/{groupId}", controller.DeleteGroup).Methods("DELETE")
	groupRouter.HandleFunc("/{groupId}/leave", controller.LeaveGroup).Methods("POST")
	groupRouter.HandleFunc("/{groupId}/invite", controller.RegenerateInvite).Methods("POST")
	groupRouter.HandleFunc("/{groupId}/active", controller.ToggleActive).Methods("POST")
}
