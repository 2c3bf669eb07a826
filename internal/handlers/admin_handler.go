package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/authone/authone/internal/entities"
)

type reconcileResponse struct {
	Rules int `json:"rules"`
}

// reconcile rebuilds the policy rule set from the entity relationship graph.
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Reconcile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reconcileResponse{Rules: count})
}

type auditEntryResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Allowed   bool      `json:"allowed"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toAuditEntryResponse(entry *entities.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:        entry.ID,
		AccountID: entry.AccountID,
		Action:    entry.Action,
		Resource:  entry.Resource,
		Allowed:   entry.Allowed,
		Message:   entry.Message,
		CreatedAt: entry.CreatedAt,
	}
}

func (h *Handler) listAuditEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 100
	if raw := q.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.svc.ListAuditEntries(r.Context(), q.Get("account_id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toAuditEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, out)
}
