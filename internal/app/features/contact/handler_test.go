package contact_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/features/contact"
)

func TestServeContact_WritesNoErrorStatus(t *testing.T) {
	h := contact.NewHandler(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeContact(rec, req)
	}()

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
