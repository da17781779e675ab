// internal/app/features/crophealth/handler_test.go
package crophealth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/testutil"
)

type fakeGateway struct {
	prediction *crophealth.Prediction
	predictErr error
	learnErr   error

	predictCalls int
	gotFilename  string
	gotFields    map[string]string
	gotImage     []byte

	learnCalls int
	gotFB      crophealth.Feedback
}

func (f *fakeGateway) Predict(_ context.Context, image io.Reader, filename string, fields map[string]string) (*crophealth.Prediction, error) {
	f.predictCalls++
	f.gotFilename = filename
	f.gotFields = fields
	f.gotImage, _ = io.ReadAll(image)
	if f.predictErr != nil {
		return nil, f.predictErr
	}
	return f.prediction, nil
}

func (f *fakeGateway) Status(context.Context) (*crophealth.Status, error) {
	return &crophealth.Status{Ready: true, Model: "leafnet"}, nil
}

func (f *fakeGateway) Performance(context.Context) (*crophealth.Performance, error) {
	return &crophealth.Performance{Accuracy: 0.9, SampleCount: 100}, nil
}

func (f *fakeGateway) Learn(_ context.Context, fb crophealth.Feedback) error {
	f.learnCalls++
	f.gotFB = fb
	return f.learnErr
}

func newHandler(gw *fakeGateway) *Handler {
	return NewHandler(gw, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

// serve tolerates template panics; the view engine is not booted in
// unit tests and everything under test happens before rendering.
func serve(fn http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() { _ = recover() }()
	fn(w, r)
}

func multipartBody(t *testing.T, image []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != nil {
		part, err := mw.CreateFormFile("image", "leaf.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func predictRequest(t *testing.T, image []byte, fields map[string]string) *http.Request {
	t.Helper()

	body, contentType := multipartBody(t, image, fields)
	req := httptest.NewRequest(http.MethodPost, "/crop-health/predict", body)
	req.Header.Set("Content-Type", contentType)
	return testutil.WithUser(req, testutil.FarmerUser())
}

func TestPredictForwardsImageAndFields(t *testing.T) {
	gw := &fakeGateway{prediction: &crophealth.Prediction{Disease: "leaf blast", Confidence: 0.93}}
	h := newHandler(gw)

	req := predictRequest(t, []byte("jpegbytes"), map[string]string{
		"crop":     "Paddy",
		"location": "Guntur",
	})
	rec := httptest.NewRecorder()

	serve(h.HandlePredict, rec, req)

	if gw.predictCalls != 1 {
		t.Fatalf("Predict calls = %d, want 1", gw.predictCalls)
	}
	if gw.gotFilename != "leaf.jpg" {
		t.Errorf("filename = %q, want leaf.jpg", gw.gotFilename)
	}
	if string(gw.gotImage) != "jpegbytes" {
		t.Errorf("image bytes = %q", gw.gotImage)
	}
	if gw.gotFields["crop"] != "Paddy" || gw.gotFields["location"] != "Guntur" {
		t.Errorf("fields = %v", gw.gotFields)
	}
	if _, ok := gw.gotFields["notes"]; ok {
		t.Errorf("empty notes field forwarded: %v", gw.gotFields)
	}
}

func TestPredictRequiresImage(t *testing.T) {
	gw := &fakeGateway{}
	h := newHandler(gw)

	req := predictRequest(t, nil, map[string]string{"crop": "Paddy"})
	rec := httptest.NewRecorder()

	serve(h.HandlePredict, rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if gw.predictCalls != 0 {
		t.Errorf("Predict called without an image")
	}
}

func TestPredictRequiresCrop(t *testing.T) {
	gw := &fakeGateway{}
	h := newHandler(gw)

	req := predictRequest(t, []byte("x"), map[string]string{"crop": "   "})
	rec := httptest.NewRecorder()

	serve(h.HandlePredict, rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if gw.predictCalls != 0 {
		t.Errorf("Predict called without a crop name")
	}
}

func TestPredictServiceOutageStaysOnForm(t *testing.T) {
	gw := &fakeGateway{predictErr: errors.New("model busy")}
	h := newHandler(gw)

	req := predictRequest(t, []byte("x"), map[string]string{"crop": "Cotton"})
	rec := httptest.NewRecorder()

	serve(h.HandlePredict, rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func feedbackRequest(form url.Values, user testutil.TestUser) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/crop-health/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithUser(req, user)
}

func TestFeedbackSubmitsCorrection(t *testing.T) {
	gw := &fakeGateway{}
	h := newHandler(gw)

	req := feedbackRequest(url.Values{
		"predictionId": {"p-42"},
		"disease":      {"leaf blast"},
		"correct":      {"no"},
		"actualLabel":  {"brown spot"},
	}, testutil.ExpertUser())
	rec := httptest.NewRecorder()

	serve(h.HandleFeedback, rec, req)

	if gw.learnCalls != 1 {
		t.Fatalf("Learn calls = %d, want 1", gw.learnCalls)
	}
	want := crophealth.Feedback{PredictionID: "p-42", Disease: "leaf blast", Correct: false, ActualLabel: "brown spot"}
	if gw.gotFB != want {
		t.Errorf("feedback = %+v, want %+v", gw.gotFB, want)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/crop-health?notice=") {
		t.Errorf("Location = %q", loc)
	}
}

func TestFeedbackWrongWithoutLabelRejected(t *testing.T) {
	gw := &fakeGateway{}
	h := newHandler(gw)

	req := feedbackRequest(url.Values{
		"disease": {"leaf blast"},
		"correct": {"no"},
	}, testutil.ExpertUser())
	rec := httptest.NewRecorder()

	serve(h.HandleFeedback, rec, req)

	if gw.learnCalls != 0 {
		t.Errorf("Learn called without an actual label")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestFeedbackServiceOutageRedirectsWithNotice(t *testing.T) {
	gw := &fakeGateway{learnErr: errors.New("queue full")}
	h := newHandler(gw)

	req := feedbackRequest(url.Values{
		"disease": {"leaf blast"},
		"correct": {"yes"},
	}, testutil.FarmerUser())
	rec := httptest.NewRecorder()

	serve(h.HandleFeedback, rec, req)

	if gw.learnCalls != 1 {
		t.Fatalf("Learn calls = %d, want 1", gw.learnCalls)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "notice=") {
		t.Errorf("Location = %q, want a notice", loc)
	}
}
