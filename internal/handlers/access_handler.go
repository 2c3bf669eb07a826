package handlers

import (
	"fmt"
	"net/http"

	"github.com/authone/authone/internal/services/authorization"
	"go.uber.org/zap"
)

type checkAccessRequest struct {
	AccountID string `json:"account_id"`
	TenantID  string `json:"tenant_id"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
}

type checkAccessResponse struct {
	Allowed bool `json:"allowed"`
}

// checkAccess evaluates whether an account may perform an action on a
// resource. An unavailable engine answers 503 with allowed=false so callers
// can still fail closed on the body alone.
func (h *Handler) checkAccess(w http.ResponseWriter, r *http.Request) {
	var req checkAccessRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.AccountID == "" || req.Resource == "" || req.Action == "" {
		writeBadRequest(w, fmt.Errorf("account_id, resource, and action are required"))
		return
	}

	resp, err := h.svc.CheckAccess(r.Context(), &authorization.CheckRequest{
		AccountID: req.AccountID,
		TenantID:  req.TenantID,
		Resource:  req.Resource,
		Action:    req.Action,
	})
	if err != nil {
		h.logger.Warn("access check failed",
			zap.String("account_id", req.AccountID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkAccessResponse{Allowed: resp.Allowed})
}
