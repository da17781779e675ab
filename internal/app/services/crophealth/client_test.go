// internal/app/services/crophealth/client_test.go

package crophealth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestPredictSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/agentic_predict" {
			t.Errorf("path = %s, want /agentic_predict", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "leaf.jpg" {
			t.Errorf("filename = %s, want leaf.jpg", hdr.Filename)
		}
		if got := r.FormValue("crop"); got != "wheat" {
			t.Errorf("crop field = %q, want wheat", got)
		}
		json.NewEncoder(w).Encode(Prediction{
			Disease:    "leaf rust",
			Confidence: 0.92,
			Advice:     "apply fungicide",
		})
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	pred, err := gw.Predict(context.Background(), strings.NewReader("fakeimagebytes"), "leaf.jpg",
		map[string]string{"crop": "wheat"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Disease != "leaf rust" {
		t.Errorf("disease = %q, want leaf rust", pred.Disease)
	}
	if pred.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", pred.Confidence)
	}
}

func TestPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	_, err := gw.Predict(context.Background(), strings.NewReader("x"), "leaf.jpg", nil)
	if err == nil {
		t.Fatal("expected error on 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status 503 mentioned", err)
	}
}

func TestStatusAndPerformance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/agentic_status":
			json.NewEncoder(w).Encode(Status{Ready: true, Model: "cnn-v3"})
		case "/agentic_performance":
			json.NewEncoder(w).Encode(Performance{Accuracy: 0.87, SampleCount: 1240})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())

	st, err := gw.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Ready || st.Model != "cnn-v3" {
		t.Errorf("status = %+v", st)
	}

	perf, err := gw.Performance(context.Background())
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}
	if perf.SampleCount != 1240 {
		t.Errorf("sampleCount = %d, want 1240", perf.SampleCount)
	}
}

func TestLearnPostsFeedback(t *testing.T) {
	var got Feedback
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/agentic_learn" {
			t.Errorf("got %s %s, want POST /agentic_learn", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	gw := New(srv.URL, zap.NewNop())
	err := gw.Learn(context.Background(), Feedback{Disease: "leaf rust", Correct: false, ActualLabel: "septoria"})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if got.ActualLabel != "septoria" || got.Correct {
		t.Errorf("feedback = %+v", got)
	}
}
