package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/services"
	"github.com/Kiransoodyall03/nightlife-app-sub000/utils"

	"github.com/gorilla/mux"
)

// GroupController handles HTTP requests for group lifecycle and activation
type GroupController struct {
	Groups       *services.GroupService
	Invites      *services.InviteService
	ActiveGroups *services.ActiveGroupService
}

// NewGroupController creates a new GroupController instance
func NewGroupController(groups *services.GroupService, invites *services.InviteService, activeGroups *services.ActiveGroupService) *GroupController {
	return &GroupController{Groups: groups, Invites: invites, ActiveGroups: activeGroups}
}

// CreateGroup handles POST /api/groups
func (gc *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var request struct {
		OwnerID    string   `json:"ownerId"`
		Name       string   `json:"name"`
		Categories []string `json:"categories"`
		PictureRef string   `json:"pictureRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	group, err := gc.Groups.CreateGroup(r.Context(), request.OwnerID, request.Name, request.Categories, request.PictureRef)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"group": group})
}

// GetGroup handles GET /api/groups/{groupId}
func (gc *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	group, err := gc.Groups.GetGroup(r.Context(), groupID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"group": group})
}

// ListGroups handles GET /api/groups?userId=
func (gc *GroupController) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	groups, err := gc.Groups.ListGroups(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// JoinGroup handles POST /api/groups/join
func (gc *GroupController) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	group, err := gc.Groups.JoinGroupByCode(r.Context(), request.UserID, request.Code)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"group": group})
}

// LeaveGroup handles POST /api/groups/{groupId}/leave
func (gc *GroupController) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := gc.Groups.LeaveGroup(r.Context(), request.UserID, groupID); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Left group"})
}

// DeleteGroup handles DELETE /api/groups/{groupId}?requesterId=
func (gc *GroupController) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	requesterID := r.URL.Query().Get("requesterId")
	if requesterID == "" {
		http.Error(w, "requesterId is required", http.StatusBadRequest)
		return
	}

	if err := gc.Groups.DeleteGroup(r.Context(), requesterID, groupID); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Group deleted"})
}

// RegenerateInvite handles POST /api/groups/{groupId}/invite. Any member
// may mint a fresh code; the previous code stops resolving.
func (gc *GroupController) RegenerateInvite(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	var request struct {
		RequesterID string `json:"requesterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	group, err := gc.Groups.GetGroup(r.Context(), groupID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if !group.HasMember(request.RequesterID) {
		utils.WriteError(w, apperrors.New(apperrors.Authorization, "only members can regenerate the invite code"))
		return
	}

	invite, err := gc.Invites.Issue(r.Context(), groupID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"invite": invite})
}

// ToggleActive handles POST /api/groups/{groupId}/active
func (gc *GroupController) ToggleActive(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	active, err := gc.ActiveGroups.Toggle(r.Context(), request.UserID, groupID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"active": active})
}

// ListActive handles GET /api/groups/active?userId=
func (gc *GroupController) ListActive(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	groups, err := gc.ActiveGroups.ListActive(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}
