package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/authone/authone/internal/entities"
	"github.com/go-chi/chi/v5"
)

type createGroupRequest struct {
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toGroupResponse(group *entities.Group) groupResponse {
	return groupResponse{
		ID:          group.ID,
		TenantID:    group.TenantID,
		Name:        group.Name,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
	}
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Name == "" {
		writeBadRequest(w, fmt.Errorf("name is required"))
		return
	}

	group, err := h.svc.CreateGroup(r.Context(), req.TenantID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroups(r.Context(), r.URL.Query().Get("tenant_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]groupResponse, 0, len(groups))
	for _, group := range groups {
		out = append(out, toGroupResponse(group))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGroupRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.ListGroupRoles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleResponse(role))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) assignRoleToGroup(w http.ResponseWriter, r *http.Request) {
	err := h.svc.AssignRoleToGroup(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "roleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeRoleFromGroup(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveRoleFromGroup(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "roleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
