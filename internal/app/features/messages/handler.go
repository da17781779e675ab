package messages

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/adminapi"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

// Handler serves the signed-in user's message inbox. Messages are
// broadcast by admins through the admin service and fetched read-only
// here, scoped to the user's role plus anything addressed to them
// directly.
type Handler struct {
	Log   *zap.Logger
	Admin adminapi.Gateway
}

func NewHandler(adminGW adminapi.Gateway, logger *zap.Logger) *Handler {
	return &Handler{
		Log:   logger,
		Admin: adminGW,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /messages – inbox                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type listVM struct {
	viewdata.BaseVM
	Messages   []models.Message
	FetchError string
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := listVM{
		BaseVM: viewdata.NewBaseVM(r, "Messages", "/"),
	}

	msgs, err := h.Admin.ListMessages(r.Context(), user.Role, user.ID)
	if err != nil {
		h.Log.Warn("message fetch failed",
			zap.String("user", user.ID),
			zap.Error(err))
		data.FetchError = "Messages are unavailable right now. Please try again later."
	} else {
		data.Messages = msgs
	}

	templates.Render(w, r, "messages_list", data)
}
