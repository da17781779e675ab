package messages

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/adminapi"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
	"github.com/agrimitra/agrimitra/internal/domain/models"
	"github.com/agrimitra/agrimitra/internal/testutil"
)

type fakeAdmin struct {
	adminapi.Gateway

	messages []models.Message
	err      error

	gotRole   string
	gotUserID string
	calls     int
}

func (f *fakeAdmin) ListMessages(_ context.Context, role, userID string) ([]models.Message, error) {
	f.calls++
	f.gotRole = role
	f.gotUserID = userID
	return f.messages, f.err
}

// serve runs the handler tolerating template panics, since the view
// engine is not booted in unit tests. Routing, redirects and gateway
// calls all happen before rendering.
func serve(h *Handler, w http.ResponseWriter, r *http.Request) {
	defer func() { _ = recover() }()
	h.ServeList(w, r)
}

func TestListScopesToCurrentUser(t *testing.T) {
	gw := &fakeAdmin{messages: []models.Message{{ID: "m-1", Subject: "Monsoon advisory"}}}
	h := NewHandler(gw, zap.NewNop())

	user := testutil.UserWithRole(roles.Farmer)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/messages", user)
	rec := httptest.NewRecorder()

	serve(h, rec, req)

	if gw.calls != 1 {
		t.Fatalf("ListMessages calls = %d, want 1", gw.calls)
	}
	if gw.gotRole != string(roles.Farmer) {
		t.Errorf("role = %q, want %q", gw.gotRole, roles.Farmer)
	}
	if gw.gotUserID != user.ID {
		t.Errorf("userID = %q, want %q", gw.gotUserID, user.ID)
	}
}

func TestListAnonymousRedirectsToLogin(t *testing.T) {
	gw := &fakeAdmin{}
	h := NewHandler(gw, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	rec := httptest.NewRecorder()

	serve(h, rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times for anonymous request", gw.calls)
	}
}

func TestListToleratesGatewayOutage(t *testing.T) {
	gw := &fakeAdmin{err: errors.New("connection refused")}
	h := NewHandler(gw, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/messages", testutil.DealerUser())
	rec := httptest.NewRecorder()

	serve(h, rec, req)

	// The page still renders (no redirect, no error status written
	// before the template stage).
	if rec.Code == http.StatusSeeOther {
		t.Fatalf("outage caused a redirect to %q", rec.Header().Get("Location"))
	}
	if gw.calls != 1 {
		t.Errorf("ListMessages calls = %d, want 1", gw.calls)
	}
}
