package messages

import (
	"github.com/go-chi/chi/v5"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)
	return r
}
