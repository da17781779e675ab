package health

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client     *mongo.Client
	CropHealth crophealth.Gateway
	Log        *zap.Logger
}

// NewHandler constructs a health Handler. The crop-health gateway is
// optional; when nil the model status is omitted from the response.
func NewHandler(client *mongo.Client, cropGW crophealth.Gateway, logger *zap.Logger) *Handler {
	return &Handler{
		Client:     client,
		CropHealth: cropGW,
		Log:        logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Message  string       `json:"message,omitempty"`
	Error    string       `json:"error,omitempty"`
	Model    *modelStatus `json:"model,omitempty"`
}

// modelStatus is a simplified inference-service status.
type modelStatus struct {
	Ready bool   `json:"ready"`
	Name  string `json:"name,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "model":{"ready":true,"name":"cnn-v3"} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	// Check database
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	// Check inference service (non-blocking, informational only)
	if h.CropHealth != nil {
		if st, err := h.CropHealth.Status(r.Context()); err == nil {
			resp.Model = &modelStatus{Ready: st.Ready, Name: st.Model}
		} else {
			resp.Model = &modelStatus{Ready: false}
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
