// Package handlers exposes the authorization engine over HTTP/JSON.
package handlers

import (
	"net/http"

	"github.com/authone/authone/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handler bundles the HTTP endpoints around the auth service.
type Handler struct {
	svc    *services.AuthService
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *services.AuthService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes builds the chi router. Extra middlewares (metrics, tracing) are
// applied before the built-in ones.
func (h *Handler) Routes(extra ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	for _, mw := range extra {
		r.Use(mw)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/access/check", h.checkAccess)

		r.Route("/permissions", func(r chi.Router) {
			r.Post("/", h.createPermission)
			r.Get("/", h.listPermissions)
			r.Get("/{id}", h.getPermission)
			r.Delete("/{id}", h.deletePermission)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Post("/", h.createRole)
			r.Get("/", h.listRoles)
			r.Get("/{id}", h.getRole)
			r.Delete("/{id}", h.deleteRole)
			r.Get("/{id}/permissions", h.listRolePermissions)
			r.Put("/{id}/permissions/{permissionID}", h.assignPermissionToRole)
			r.Delete("/{id}/permissions/{permissionID}", h.removePermissionFromRole)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", h.createGroup)
			r.Get("/", h.listGroups)
			r.Get("/{id}", h.getGroup)
			r.Delete("/{id}", h.deleteGroup)
			r.Get("/{id}/roles", h.listGroupRoles)
			r.Put("/{id}/roles/{roleID}", h.assignRoleToGroup)
			r.Delete("/{id}/roles/{roleID}", h.removeRoleFromGroup)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.createAccount)
			r.Get("/", h.listAccounts)
			r.Get("/{id}", h.getAccount)
			r.Delete("/{id}", h.deleteAccount)
			r.Get("/{id}/roles", h.listAccountRoles)
			r.Put("/{id}/roles/{roleID}", h.assignRoleToAccount)
			r.Delete("/{id}/roles/{roleID}", h.removeRoleFromAccount)
			r.Get("/{id}/groups", h.listAccountGroups)
			r.Put("/{id}/groups/{groupID}", h.assignAccountToGroup)
			r.Delete("/{id}/groups/{groupID}", h.removeAccountFromGroup)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Post("/", h.createResource)
			r.Get("/", h.listResources)
			r.Get("/{id}", h.getResource)
			r.Delete("/{id}", h.deleteResource)
		})

		r.Get("/audit", h.listAuditEntries)
		r.Post("/admin/reconcile", h.reconcile)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
