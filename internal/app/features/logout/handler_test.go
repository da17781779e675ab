package logout_test

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/features/logout"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/testutil"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "agrimitra_session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestServeLogout_RedirectsHome(t *testing.T) {
	sm := newSessionManager(t)
	h := logout.NewHandler(sm, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/logout", testutil.FarmerUser())
	rec := testutil.NewRecorder()

	h.ServeLogout(rec, req)

	rec.AssertRedirect(t, "/")

	// A deletion cookie must go out so the browser drops the session.
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie on the response")
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("expected deletion cookie (MaxAge < 0), got %d", cookies[0].MaxAge)
	}
}

func TestServeLogout_HTMXGetsHXRedirect(t *testing.T) {
	sm := newSessionManager(t)
	h := logout.NewHandler(sm, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/logout", testutil.FarmerUser())
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()

	h.ServeLogout(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect = %q, want /", got)
	}
}
