// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/services/statistics"
	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	reportstore "github.com/agrimitra/agrimitra/internal/app/store/reports"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/ratelimit"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

type Handler struct {
	Log    *zap.Logger
	Store  *reportstore.Store
	Stats  statistics.Gateway
	Audit  *audit.Store
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(store *reportstore.Store, stats statistics.Gateway, auditStore *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Store:  store,
		Stats:  stats,
		Audit:  auditStore,
		ErrLog: errLog,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type listPageData struct {
	viewdata.BaseVM
	Snapshots []models.ReportSnapshot
	Error     string
	Notice    string
}

type viewPageData struct {
	viewdata.BaseVM
	Snapshot models.ReportSnapshot
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reports                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	data := listPageData{
		BaseVM: viewdata.NewBaseVM(r, "Saved Reports", "/"),
		Notice: r.URL.Query().Get("notice"),
	}

	snaps, err := h.Store.List(ctx, user.ID)
	if err != nil {
		h.Log.Error("reports: list failed", zap.String("user_id", user.ID), zap.Error(err))
		data.Error = "Saved reports are unavailable right now."
	} else {
		data.Snapshots = snaps
	}

	templates.Render(w, r, "reports_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /reports – generate and save                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/reports")
		return
	}

	user, _ := auth.CurrentUser(r)
	title := strings.TrimSpace(r.FormValue("title"))
	chartType := r.FormValue("chartType")
	crop := strings.TrimSpace(r.FormValue("crop"))
	state := strings.TrimSpace(r.FormValue("state"))
	yearStr := strings.TrimSpace(r.FormValue("year"))

	if crop == "" || state == "" {
		h.redirectNotice(w, r, "Crop and state are required.")
		return
	}
	if chartType != "bar" && chartType != "line" {
		chartType = "line"
	}
	year := 0
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	}
	if title == "" {
		title = crop + " production, " + state
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	points, err := h.Stats.Trend(ctx, statistics.TrendQuery{Crop: crop, State: state, Year: year})
	if err != nil {
		h.Log.Error("reports: trend fetch failed",
			zap.String("crop", crop), zap.String("state", state), zap.Error(err))
		h.redirectNotice(w, r, "The statistics service is unavailable right now.")
		return
	}

	id, err := h.Store.Save(ctx, models.ReportSnapshot{
		UserID:    user.ID,
		Title:     title,
		ChartType: chartType,
		CropType:  crop,
		Filters:   map[string]string{"state": state, "year": yearStr},
		Data:      points,
	})
	if err != nil {
		h.Log.Error("reports: save failed", zap.Error(err))
		h.redirectNotice(w, r, "Could not save the report. Please try again.")
		return
	}

	http.Redirect(w, r, "/reports/"+id.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reports/{id}                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad report id", err, "Unknown report.", "/reports")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	snap, err := h.Store.Get(ctx, user.ID, id)
	if err == reportstore.ErrNotFound {
		h.redirectNotice(w, r, "That report no longer exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "report fetch failed", err, "Could not load the report.", "/reports")
		return
	}

	templates.Render(w, r, "reports_view", viewPageData{
		BaseVM:   viewdata.NewBaseVM(r, snap.Title, "/reports"),
		Snapshot: *snap,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /reports/{id}/delete, POST /reports/clear                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad report id", err, "Unknown report.", "/reports")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	switch err := h.Store.Delete(ctx, user.ID, id); err {
	case nil:
		h.redirectNotice(w, r, "Report deleted.")
	case reportstore.ErrNotFound:
		h.redirectNotice(w, r, "That report no longer exists.")
	default:
		h.Log.Error("reports: delete failed", zap.Error(err))
		h.redirectNotice(w, r, "Could not delete the report. Please try again.")
	}
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, _ := auth.CurrentUser(r)

	deleted, err := h.Store.Clear(ctx, user.ID)
	if err != nil {
		h.Log.Error("reports: clear failed", zap.Error(err))
		h.redirectNotice(w, r, "Could not clear your reports. Please try again.")
		return
	}
	h.auditCleared(r, user, deleted)
	h.redirectNotice(w, r, "All reports cleared.")
}

func (h *Handler) auditCleared(r *http.Request, user *auth.SessionUser, deleted int64) {
	if h.Audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := h.Audit.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventReportCleared,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"deleted": strconv.FormatInt(deleted, 10)},
	})
	if err != nil {
		h.Log.Warn("audit write failed", zap.Error(err))
	}
}

func (h *Handler) redirectNotice(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/reports?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
