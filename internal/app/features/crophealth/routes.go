// internal/app/features/crophealth/routes.go
package crophealth

import (
	"github.com/go-chi/chi/v5"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// Routes serves farmers (who upload) and agriculture experts (who
// review model health and correct predictions).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(
			string(roles.Farmer),
			string(roles.AgricultureExpert),
		))
		pr.Get("/", h.ServeUpload)
		pr.Post("/predict", h.HandlePredict)
		pr.Get("/model", h.ServeModel)
		pr.Post("/feedback", h.HandleFeedback)
	})

	return r
}
