// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// Routes builds a standalone router with the dispatch page and one
// guarded dashboard per role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	Mount(r, h, sm)
	r.Route("/admin", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.Admin)))
		rr.Get("/dashboard", h.ServeAdmin)
	})
	return r
}

// Mount registers the dashboard routes on an existing router. The role
// prefixes live at the top level (/farmer/dashboard, /dealer/dashboard)
// so they are registered onto the parent rather than mounted under a
// common prefix. The admin dashboard is not included; the /admin prefix
// is shared with the admin console and composed by the caller.
func Mount(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/dashboard", h.ServeDispatch)
	})

	r.Route("/farmer", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.Farmer)))
		rr.Get("/dashboard", h.ServeFarmer)
	})
	r.Route("/dealer", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.Dealer)))
		rr.Get("/dashboard", h.ServeDealer)
	})
	r.Route("/wholesaler", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.Wholesaler)))
		rr.Get("/dashboard", h.ServeWholesaler)
	})
	r.Route("/retailer", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.Retailer)))
		rr.Get("/dashboard", h.ServeRetailer)
	})
	r.Route("/agency", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.GovernmentAgency)))
		rr.Get("/dashboard", h.ServeAgency)
	})
	r.Route("/ngo", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.NGO)))
		rr.Get("/dashboard", h.ServeNGO)
	})
	r.Route("/provider", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.ResourceProvider)))
		rr.Get("/dashboard", h.ServeProvider)
	})
	r.Route("/expert", func(rr chi.Router) {
		rr.Use(sm.RequireRole(string(roles.AgricultureExpert)))
		rr.Get("/dashboard", h.ServeExpert)
	})
}
