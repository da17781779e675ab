package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/system/authz"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log: logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot shows the public landing page. Signed-in users go straight
// to their role's dashboard.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if role, _, _, ok := authz.UserCtx(r); ok {
		http.Redirect(w, r, roles.LandingPath(string(role)), http.StatusSeeOther)
		return
	}

	data := struct {
		viewdata.BaseVM
		Roles []string
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
		Roles:  roleNames(),
	}

	templates.Render(w, r, "home", data)
}

func roleNames() []string {
	names := make([]string, 0, len(roles.All))
	for _, role := range roles.All {
		names = append(names, string(role))
	}
	return names
}
