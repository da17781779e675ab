// internal/app/features/crophealth/handler.go
package crophealth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
)

// maxUploadBytes caps a single leaf-image upload. The inference service
// downsizes anyway, so anything beyond this is a mistake, not a photo.
const maxUploadBytes = 10 << 20

// Handler proxies leaf-image diagnosis through the inference service:
// upload form, prediction view, model status page and prediction
// feedback for the expert review loop.
type Handler struct {
	Log    *zap.Logger
	Crop   crophealth.Gateway
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(cropGW crophealth.Gateway, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Crop:   cropGW,
		ErrLog: errLog,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type uploadPageData struct {
	viewdata.BaseVM
	ModelReady bool
	ModelName  string
	Notice     string
	Error      string
}

type resultPageData struct {
	viewdata.BaseVM
	Prediction    *crophealth.Prediction
	CropName      string
	ConfidencePct float64
}

type modelPageData struct {
	viewdata.BaseVM
	Status      *crophealth.Status
	Performance *crophealth.Performance
	AccuracyPct float64
	Error       string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /crop-health – upload form                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	data := uploadPageData{
		BaseVM: viewdata.NewBaseVM(r, "Crop Health", "/"),
		Notice: r.URL.Query().Get("notice"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if status, err := h.Crop.Status(ctx); err != nil {
		h.Log.Warn("crophealth: status probe failed", zap.Error(err))
	} else {
		data.ModelReady = status.Ready
		data.ModelName = status.Model
	}

	templates.Render(w, r, "crophealth_upload", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /crop-health/predict                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// HandlePredict forwards the uploaded image and context fields to the
// inference service and renders the diagnosis inline.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "crophealth.predict", err,
			"The uploaded image is too large or the form was malformed.", "/crop-health")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.renderUploadError(w, r, "Please choose a leaf image to upload.")
		return
	}
	defer file.Close()

	crop := strings.TrimSpace(r.FormValue("crop"))
	if crop == "" {
		h.renderUploadError(w, r, "Please tell us which crop this is.")
		return
	}

	fields := map[string]string{"crop": crop}
	if loc := strings.TrimSpace(r.FormValue("location")); loc != "" {
		fields["location"] = loc
	}
	if notes := strings.TrimSpace(r.FormValue("notes")); notes != "" {
		fields["notes"] = notes
	}

	pred, err := h.Crop.Predict(r.Context(), file, header.Filename, fields)
	if err != nil {
		h.Log.Error("crophealth: predict failed",
			zap.String("crop", crop),
			zap.Error(err))
		h.renderUploadError(w, r, "The diagnosis service is unavailable right now. Please try again later.")
		return
	}

	data := resultPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Diagnosis", "/crop-health"),
		Prediction:    pred,
		CropName:      crop,
		ConfidencePct: pred.Confidence * 100,
	}
	templates.Render(w, r, "crophealth_result", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /crop-health/model – status & performance                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeModel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	data := modelPageData{
		BaseVM: viewdata.NewBaseVM(r, "Model Status", "/crop-health"),
	}

	status, err := h.Crop.Status(ctx)
	if err != nil {
		h.Log.Error("crophealth: status fetch failed", zap.Error(err))
		data.Error = "Model status is unavailable right now."
	} else {
		data.Status = status
	}

	if perf, err := h.Crop.Performance(ctx); err != nil {
		h.Log.Warn("crophealth: performance fetch failed", zap.Error(err))
	} else {
		data.Performance = perf
		data.AccuracyPct = perf.Accuracy * 100
	}

	templates.Render(w, r, "crophealth_model", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /crop-health/feedback                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleFeedback reports whether a diagnosis matched reality back to
// the inference service, which folds it into its training queue.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	disease := strings.TrimSpace(r.FormValue("disease"))
	if disease == "" {
		h.redirectNotice(w, r, "Feedback needs the diagnosed disease.")
		return
	}

	fb := crophealth.Feedback{
		PredictionID: strings.TrimSpace(r.FormValue("predictionId")),
		Disease:      disease,
		Correct:      r.FormValue("correct") == "yes",
		ActualLabel:  strings.TrimSpace(r.FormValue("actualLabel")),
	}
	if !fb.Correct && fb.ActualLabel == "" {
		h.redirectNotice(w, r, "Please name the actual disease when marking a diagnosis wrong.")
		return
	}

	if err := h.Crop.Learn(r.Context(), fb); err != nil {
		h.Log.Error("crophealth: feedback submit failed",
			zap.String("disease", disease),
			zap.Error(err))
		h.redirectNotice(w, r, "Could not record feedback. Please try again later.")
		return
	}

	if user, ok := auth.CurrentUser(r); ok {
		h.Log.Info("crophealth: feedback recorded",
			zap.String("user", user.ID),
			zap.String("disease", disease),
			zap.Bool("correct", fb.Correct))
	}

	h.redirectNotice(w, r, "Thank you, your feedback was recorded.")
}

func (h *Handler) renderUploadError(w http.ResponseWriter, r *http.Request, msg string) {
	data := uploadPageData{
		BaseVM: viewdata.NewBaseVM(r, "Crop Health", "/"),
		Error:  msg,
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "crophealth_upload", data)
}

func (h *Handler) redirectNotice(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/crop-health?notice="+url.QueryEscape(msg), http.StatusSeeOther)
}
