// internal/app/features/statistics/routes.go
package statistics

import (
	"github.com/go-chi/chi/v5"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// Routes serves the roles that plan against historical production data.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(
			string(roles.Farmer),
			string(roles.GovernmentAgency),
			string(roles.NGO),
		))
		pr.Get("/", h.ServeTrend)
	})

	return r
}
