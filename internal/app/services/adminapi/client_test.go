package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestUserStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/users/stats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(UserStats{
			Total:  42,
			ByRole: map[string]int{"farmer": 30, "dealer": 12},
		})
	}))
	defer srv.Close()

	gw := New(srv.URL, "", "", "", zap.NewNop())
	stats, err := gw.UserStats(context.Background())
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.Total != 42 || stats.ByRole["farmer"] != 30 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestQueryLogsEncodesFilters(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("level") != "error" {
			t.Errorf("level = %q", q.Get("level"))
		}
		if q.Get("since") != since.Format(time.RFC3339) {
			t.Errorf("since = %q", q.Get("since"))
		}
		if q.Get("limit") != "50" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		json.NewEncoder(w).Encode([]LogEntry{{ID: "l-1", Level: "error", Message: "boom"}})
	}))
	defer srv.Close()

	gw := New(srv.URL, "", "", "", zap.NewNop())
	entries, err := gw.QueryLogs(context.Background(), LogQuery{Level: "error", Since: since, Limit: 50})
	if err != nil {
		t.Fatalf("QueryLogs: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "boom" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSendMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/admin/messages" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	gw := New(srv.URL, "", "", "", zap.NewNop())
	if err := gw.SendMessage(context.Background(), "Farmer", "Advisory", "Rain expected."); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got["role"] != "Farmer" || got["subject"] != "Advisory" {
		t.Errorf("payload = %v", got)
	}
}

func TestPutSettings(t *testing.T) {
	var got Settings
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("method = %q", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := New(srv.URL, "", "", "", zap.NewNop())
	err := gw.PutSettings(context.Background(), Settings{SiteName: "AgriMitra", MaintenanceMode: true})
	if err != nil {
		t.Fatalf("PutSettings: %v", err)
	}
	if got.SiteName != "AgriMitra" || !got.MaintenanceMode {
		t.Errorf("settings = %+v", got)
	}
}

func TestListMessagesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gw := New(srv.URL, "", "", "", zap.NewNop())
	if _, err := gw.ListMessages(context.Background(), "Farmer", ""); err == nil {
		t.Error("expected error for 503 response")
	}
}
