package about_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/features/about"
)

func TestServeAbout_WritesNoErrorStatus(t *testing.T) {
	h := about.NewHandler(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeAbout(rec, req)
	}()

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
