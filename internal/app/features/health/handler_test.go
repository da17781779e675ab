package health_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/features/health"
	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/testutil"
)

type fakeCropGateway struct {
	status *crophealth.Status
	err    error
}

func (f *fakeCropGateway) Predict(context.Context, io.Reader, string, map[string]string) (*crophealth.Prediction, error) {
	return nil, nil
}
func (f *fakeCropGateway) Status(context.Context) (*crophealth.Status, error) {
	return f.status, f.err
}
func (f *fakeCropGateway) Performance(context.Context) (*crophealth.Performance, error) {
	return nil, nil
}
func (f *fakeCropGateway) Learn(context.Context, crophealth.Feedback) error {
	return nil
}

func TestServe_OK(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gw := &fakeCropGateway{status: &crophealth.Status{Ready: true, Model: "cnn-v3"}}
	h := health.NewHandler(db.Client(), gw, zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/health")
	rec := testutil.NewRecorder()

	h.Serve(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Model    *struct {
			Ready bool   `json:"ready"`
			Name  string `json:"name"`
		} `json:"model"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Model == nil || !resp.Model.Ready || resp.Model.Name != "cnn-v3" {
		t.Errorf("model = %+v", resp.Model)
	}
}

func TestServe_NoGateway(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), nil, zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/health")
	rec := testutil.NewRecorder()

	h.Serve(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if body := rec.Body.String(); body == "" {
		t.Fatal("empty body")
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, present := resp["model"]; present {
		t.Error("model should be omitted without a gateway")
	}
}
