package home_test

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/features/home"
	"github.com/agrimitra/agrimitra/internal/testutil"
)

// render panics when the template engine is not booted; only the
// pre-render logic is under test here.
func serve(h *home.Handler, w http.ResponseWriter, r *http.Request) {
	defer func() { recover() }()
	h.ServeRoot(w, r)
}

func TestServeRoot_RedirectsSignedInUserToLanding(t *testing.T) {
	h := home.NewHandler(zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.FarmerUser())
	rec := testutil.NewRecorder()

	serve(h, rec, req)

	rec.AssertRedirect(t, "/farmer/dashboard")
}

func TestServeRoot_AdminLanding(t *testing.T) {
	h := home.NewHandler(zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser())
	rec := testutil.NewRecorder()

	serve(h, rec, req)

	rec.AssertRedirect(t, "/admin/dashboard")
}

func TestServeRoot_AnonymousGetsLandingPage(t *testing.T) {
	h := home.NewHandler(zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/")
	rec := testutil.NewRecorder()

	serve(h, rec, req)

	if rec.Code == http.StatusSeeOther {
		t.Errorf("anonymous request should not redirect, got %d", rec.Code)
	}
}
