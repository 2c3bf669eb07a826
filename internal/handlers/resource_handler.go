package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
	"github.com/go-chi/chi/v5"
)

type createResourceRequest struct {
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	TenantID string            `json:"tenant_id"`
	OwnerID  string            `json:"owner_id"`
	Metadata map[string]string `json:"metadata"`
}

type resourceResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	TenantID  string            `json:"tenant_id"`
	OwnerID   string            `json:"owner_id"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

func toResourceResponse(resource *entities.Resource) resourceResponse {
	return resourceResponse{
		ID:        resource.ID,
		Type:      resource.Type,
		Name:      resource.Name,
		TenantID:  resource.TenantID,
		OwnerID:   resource.OwnerID,
		Metadata:  resource.Metadata,
		CreatedAt: resource.CreatedAt,
	}
}

func (h *Handler) createResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Type == "" || req.Name == "" {
		writeBadRequest(w, fmt.Errorf("type and name are required"))
		return
	}

	resource, err := h.svc.CreateResource(r.Context(), req.Type, req.Name, req.TenantID, req.OwnerID, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResourceResponse(resource))
}

func (h *Handler) getResource(w http.ResponseWriter, r *http.Request) {
	resource, err := h.svc.GetResource(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponse(resource))
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &repositories.ResourceFilter{
		TenantID: q.Get("tenant_id"),
		Type:     q.Get("type"),
		OwnerID:  q.Get("owner_id"),
	}
	resources, err := h.svc.ListResources(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]resourceResponse, 0, len(resources))
	for _, resource := range resources {
		out = append(out, toResourceResponse(resource))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteResource(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteResource(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
