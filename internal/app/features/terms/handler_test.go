package terms_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/features/terms"
)

func TestServeTerms_WritesNoErrorStatus(t *testing.T) {
	h := terms.NewHandler(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/terms", nil)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeTerms(rec, req)
	}()

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
