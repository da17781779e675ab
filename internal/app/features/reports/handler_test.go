package reports_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/features/reports"
	"github.com/agrimitra/agrimitra/internal/app/services/statistics"
	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	reportstore "github.com/agrimitra/agrimitra/internal/app/store/reports"
	"github.com/agrimitra/agrimitra/internal/domain/models"
	"github.com/agrimitra/agrimitra/internal/testutil"
)

type fakeStats struct {
	points []models.TrendPoint
	err    error
	last   statistics.TrendQuery
}

func (f *fakeStats) Trend(ctx context.Context, q statistics.TrendQuery) ([]models.TrendPoint, error) {
	f.last = q
	return f.points, f.err
}

func newHandler(t *testing.T, stats statistics.Gateway) *reports.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return reports.NewHandler(reportstore.New(db), stats, audit.New(db), uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

func router(h *reports.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/reports", h.ServeList)
	r.Post("/reports", h.HandleCreate)
	r.Post("/reports/clear", h.HandleClear)
	r.Get("/reports/{id}", h.ServeView)
	r.Post("/reports/{id}/delete", h.HandleDelete)
	return r
}

func postAs(r chi.Router, target string, form url.Values, user testutil.TestUser) *httptest.ResponseRecorder {
	var body string
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreate_SavesSnapshotAndRedirects(t *testing.T) {
	stats := &fakeStats{points: []models.TrendPoint{{Year: 2022, Value: 110.2}}}
	h := newHandler(t, stats)
	user := testutil.FarmerUser()

	rec := postAs(router(h), "/reports", url.Values{
		"crop":      {"rice"},
		"state":     {"Punjab"},
		"year":      {"2022"},
		"chartType": {"bar"},
	}, user)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/reports/") || strings.Contains(loc, "notice=") {
		t.Fatalf("Location = %q, want /reports/{id}", loc)
	}
	if stats.last.Crop != "rice" || stats.last.State != "Punjab" || stats.last.Year != 2022 {
		t.Errorf("trend query = %+v", stats.last)
	}
}

func TestHandleCreate_StatsDownRedirectsWithNotice(t *testing.T) {
	stats := &fakeStats{err: errors.New("connection refused")}
	h := newHandler(t, stats)

	rec := postAs(router(h), "/reports", url.Values{
		"crop":  {"rice"},
		"state": {"Punjab"},
	}, testutil.FarmerUser())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Location"), "notice=") {
		t.Error("expected notice on failure redirect")
	}
}

func TestHandleCreate_MissingCrop(t *testing.T) {
	stats := &fakeStats{}
	h := newHandler(t, stats)

	rec := postAs(router(h), "/reports", url.Values{
		"state": {"Punjab"},
	}, testutil.FarmerUser())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if stats.last.State != "" {
		t.Error("statistics service must not be called with incomplete form")
	}
}

func TestDeleteThenListShrinks(t *testing.T) {
	stats := &fakeStats{points: []models.TrendPoint{{Year: 2021, Value: 100}}}
	h := newHandler(t, stats)
	user := testutil.FarmerUser()
	r := router(h)

	// Save two reports.
	for i := 0; i < 2; i++ {
		rec := postAs(r, "/reports", url.Values{
			"crop":  {"rice"},
			"state": {"Punjab"},
		}, user)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("create %d: status = %d", i, rec.Code)
		}
	}

	// Grab the first report's id from a fresh create.
	rec := postAs(r, "/reports", url.Values{
		"crop":  {"maize"},
		"state": {"Bihar"},
	}, user)
	id := strings.TrimPrefix(rec.Header().Get("Location"), "/reports/")

	del := postAs(r, "/reports/"+id+"/delete", nil, user)
	if del.Code != http.StatusSeeOther {
		t.Fatalf("delete: status = %d", del.Code)
	}

	// View of the deleted id redirects away.
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/reports/"+id, user)
	viewRec := httptest.NewRecorder()
	r.ServeHTTP(viewRec, req)
	if viewRec.Code != http.StatusSeeOther {
		t.Errorf("deleted report view: status = %d, want redirect", viewRec.Code)
	}
}

func TestClearRemovesOnlyOwnReports(t *testing.T) {
	stats := &fakeStats{points: []models.TrendPoint{{Year: 2021, Value: 100}}}
	h := newHandler(t, stats)
	r := router(h)
	alice := testutil.FarmerUser()
	bob := testutil.DealerUser()

	recA := postAs(r, "/reports", url.Values{"crop": {"rice"}, "state": {"Punjab"}}, alice)
	recB := postAs(r, "/reports", url.Values{"crop": {"rice"}, "state": {"Punjab"}}, bob)
	if recA.Code != http.StatusSeeOther || recB.Code != http.StatusSeeOther {
		t.Fatal("setup saves failed")
	}
	bobID := strings.TrimPrefix(recB.Header().Get("Location"), "/reports/")

	clear := postAs(r, "/reports/clear", nil, alice)
	if clear.Code != http.StatusSeeOther {
		t.Fatalf("clear: status = %d", clear.Code)
	}

	// Bob's report survives Alice's clear.
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/reports/"+bobID, bob)
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }() // render panics without a booted engine
		r.ServeHTTP(rec, req)
	}()
	if rec.Code == http.StatusSeeOther {
		t.Error("bob's report should still exist after alice's clear")
	}
}
