// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/ratelimit"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *audit.Store
}

func NewHandler(sessionMgr *auth.SessionManager, auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      auditStore,
	}
}

// ServeLogout handles GET /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}

	if h.Audit != nil && user != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.Audit.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLogout,
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
			IP:        ratelimit.ClientIP(r),
			UserAgent: r.UserAgent(),
			Success:   true,
		}); err != nil {
			h.Log.Warn("logout: audit write failed", zap.Error(err))
		}
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
