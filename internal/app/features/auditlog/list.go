// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
)

const pageSize = 50

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/audit                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList displays the portal audit trail with filtering and paging.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	eventType := strings.TrimSpace(r.URL.Query().Get("event_type"))
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	startDate := strings.TrimSpace(r.URL.Query().Get("start_date"))
	endDate := strings.TrimSpace(r.URL.Query().Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Email:     email,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.StartTime = &t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.Log.Error("auditlog: query failed", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "audit query", err,
			"The audit trail is unavailable right now.", "/admin/dashboard")
		return
	}

	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("auditlog: count failed", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "audit count", err,
			"The audit trail is unavailable right now.", "/admin/dashboard")
		return
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	prevPage := page - 1
	if prevPage < 1 {
		prevPage = 1
	}
	nextPage := page + 1
	if nextPage > totalPages {
		nextPage = totalPages
	}

	templates.Render(w, r, "auditlog_list", listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit Trail", "/admin/dashboard"),
		Events:     events,
		Category:   category,
		EventType:  eventType,
		Email:      email,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Shown:      len(events),
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   prevPage,
		NextPage:   nextPage,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/audit/failed-logins                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFailedLogins displays recent failed sign-in attempts, the view an
// admin reaches for first when a credential-stuffing run is suspected.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	days := 7
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 && d <= 90 {
		days = d
	}
	since := time.Now().AddDate(0, 0, -days)

	events, err := h.Audit.GetFailedLogins(ctx, since, 200)
	if err != nil {
		h.Log.Error("auditlog: failed-logins query failed", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "failed logins query", err,
			"The audit trail is unavailable right now.", "/admin/dashboard")
		return
	}

	templates.Render(w, r, "auditlog_failed", failedData{
		BaseVM: viewdata.NewBaseVM(r, "Failed Sign-Ins", "/admin/audit"),
		Events: events,
		Days:   days,
	})
}
