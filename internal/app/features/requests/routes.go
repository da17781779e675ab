// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// Routes serves the trading roles; oversight bodies see trade only on
// their dashboards.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(
			string(roles.Farmer),
			string(roles.Dealer),
			string(roles.Wholesaler),
			string(roles.Retailer),
			string(roles.ResourceProvider),
		))
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/accept", h.HandleAccept)
		pr.Post("/{id}/reject", h.HandleReject)
		pr.Post("/{id}/cancel", h.HandleCancel)
		pr.Post("/{id}/payment", h.HandlePaymentToggle)
	})

	return r
}
