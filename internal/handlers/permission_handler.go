package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/authone/authone/internal/entities"
	"github.com/go-chi/chi/v5"
)

type createPermissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type permissionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPermissionResponse(p *entities.Permission) permissionResponse {
	return permissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Resource:    p.Resource,
		Action:      p.Action,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) createPermission(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	perm, err := h.svc.CreatePermission(r.Context(), req.Name, req.Description)
	if err != nil {
		if _, _, parseErr := entities.ParsePermissionName(req.Name); parseErr != nil {
			writeBadRequest(w, parseErr)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPermissionResponse(perm))
}

func (h *Handler) getPermission(w http.ResponseWriter, r *http.Request) {
	perm, err := h.svc.GetPermission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPermissionResponse(perm))
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.svc.ListPermissions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deletePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePermission(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
