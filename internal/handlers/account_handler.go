package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/authone/authone/internal/entities"
	"github.com/go-chi/chi/v5"
)

type createAccountRequest struct {
	TenantID string `json:"tenant_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountResponse(account *entities.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		TenantID:  account.TenantID,
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Username == "" {
		writeBadRequest(w, fmt.Errorf("username is required"))
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeBadRequest(w, fmt.Errorf("invalid email: %q", req.Email))
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), req.TenantID, req.Username, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context(), r.URL.Query().Get("tenant_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountResponse(account))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAccountRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.ListAccountRoles(r.Context(), chi.URLParam(r, "id"))
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

func (h *Handler) assignRoleToAccount(w http.ResponseWriter, r *http.Request) {
	err := h.svc.AssignRoleToAccount(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "roleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeRoleFromAccount(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveRoleFromAccount(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "roleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAccountGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListAccountGroups(r.Context(), chi.URLParam(r, "id"))
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

func (h *Handler) assignAccountToGroup(w http.ResponseWriter, r *http.Request) {
	err := h.svc.AssignAccountToGroup(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeAccountFromGroup(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveAccountFromGroup(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
