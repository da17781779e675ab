// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// Routes builds a standalone admin-guarded router for the console.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(roles.Admin)))
		Mount(pr, h)
	})
	return r
}

// Mount registers the console pages on a router the caller has already
// guarded. The /admin prefix is shared with the admin dashboard, so the
// prefix and the role check are composed where the app is assembled.
func Mount(r chi.Router, h *Handler) {
	r.Get("/users", h.ServeUsers)

	r.Get("/settings", h.ServeSettings)
	r.Post("/settings", h.HandleSettingsSave)

	r.Get("/logs", h.ServeLogs)
	r.Get("/logs/export", h.HandleLogsExport)

	r.Get("/messages", h.ServeBroadcast)
	r.Post("/messages", h.HandleBroadcast)
}
