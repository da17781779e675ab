// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
)

// Mount registers the audit trail pages on an already-guarded router.
// Bootstrap composes these under the admin-only /admin prefix next to
// the console pages.
func Mount(r chi.Router, h *Handler) {
	r.Get("/audit", h.ServeList)
	r.Get("/audit/failed-logins", h.ServeFailedLogins)
}
