package inventory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrimitra/agrimitra/internal/domain/models"
	"go.uber.org/zap"
)

func TestListStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/inventory/stock" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("ownerId"); got != "d-7" {
			t.Errorf("ownerId = %q", got)
		}
		json.NewEncoder(w).Encode([]models.StockItem{
			{ID: "s-1", OwnerID: "d-7", ItemName: "Urea", Quantity: 120, Unit: "bag"},
		})
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	items, err := gw.ListStock(context.Background(), "d-7")
	if err != nil {
		t.Fatalf("ListStock: %v", err)
	}
	if len(items) != 1 || items[0].ItemName != "Urea" {
		t.Errorf("items = %+v", items)
	}
}

func TestListRequestsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	if _, err := gw.ListRequests(context.Background(), "d-7"); err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestUpdateStatusPatch(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	if err := gw.UpdateStatus(context.Background(), "req-5", models.StatusAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if gotMethod != "PATCH" {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/api/inventory/requests/req-5" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["status"] != "accepted" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestUpdatePaymentPatch(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	if err := gw.UpdatePayment(context.Background(), "req-5", models.PaymentDone); err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}
	if gotBody["paymentStatus"] != "done" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestCreateRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in models.Request
		json.NewDecoder(r.Body).Decode(&in)
		in.ID = "req-9"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	created, err := gw.CreateRequest(context.Background(), models.Request{
		RequesterID: "r-1", PartyID: "d-7", ItemName: "Wheat seed",
		RequestedQty: 40, Status: models.StatusRequested,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if created.ID != "req-9" || created.ItemName != "Wheat seed" {
		t.Errorf("created = %+v", created)
	}
}
