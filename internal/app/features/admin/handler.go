// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/adminapi"
	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/ratelimit"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
	"github.com/agrimitra/agrimitra/internal/domain/models"
)

// Handler serves the admin console: user directory, platform settings,
// service log viewer/export and role-targeted broadcasts. All writes go
// through the admin service; this portal only audits who did what.
type Handler struct {
	Log   *zap.Logger
	Admin adminapi.Gateway
	Audit *audit.Store
}

func NewHandler(adminGW adminapi.Gateway, auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:   logger,
		Admin: adminGW,
		Audit: auditStore,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type usersPageData struct {
	viewdata.BaseVM
	Users      []models.User
	RoleFilter string
	Roles      []string
	Error      string
}

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	roleFilter := strings.TrimSpace(r.URL.Query().Get("role"))
	if roleFilter != "" {
		if normalized, ok := roles.Normalize(roleFilter); ok {
			roleFilter = string(normalized)
		} else {
			roleFilter = ""
		}
	}

	data := usersPageData{
		BaseVM:     viewdata.NewBaseVM(r, "Users", "/admin/dashboard"),
		RoleFilter: roleFilter,
		Roles:      roleNames(),
	}

	users, err := h.Admin.ListUsers(ctx, roleFilter)
	if err != nil {
		h.Log.Error("admin: user list fetch failed",
			zap.String("role", roleFilter),
			zap.Error(err))
		data.Error = "The user directory is unavailable right now."
	} else {
		data.Users = users
	}

	templates.Render(w, r, "admin_users", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/settings                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type settingsPageData struct {
	viewdata.BaseVM
	Settings adminapi.Settings
	Notice   string
	Error    string
}

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	data := settingsPageData{
		BaseVM: viewdata.NewBaseVM(r, "Platform Settings", "/admin/dashboard"),
		Notice: r.URL.Query().Get("notice"),
	}

	settings, err := h.Admin.GetSettings(ctx)
	if err != nil {
		h.Log.Error("admin: settings fetch failed", zap.Error(err))
		data.Error = "Settings are unavailable right now."
	} else {
		data.Settings = *settings
	}

	templates.Render(w, r, "admin_settings", data)
}

func (h *Handler) HandleSettingsSave(w http.ResponseWriter, r *http.Request) {
	settings := adminapi.Settings{
		SiteName:         strings.TrimSpace(r.FormValue("siteName")),
		SupportEmail:     strings.TrimSpace(strings.ToLower(r.FormValue("supportEmail"))),
		MaintenanceMode:  r.FormValue("maintenanceMode") == "on",
		BroadcastEnabled: r.FormValue("broadcastEnabled") == "on",
	}
	if settings.SiteName == "" {
		h.redirectNotice(w, r, "/admin/settings", "Site name cannot be empty.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	if err := h.Admin.PutSettings(ctx, settings); err != nil {
		h.Log.Error("admin: settings save failed", zap.Error(err))
		h.redirectNotice(w, r, "/admin/settings", "Could not save settings. Please try again.")
		return
	}

	// Changing the site name takes effect without a restart.
	viewdata.SetSiteName(settings.SiteName)
	h.auditEvent(r, audit.EventSettingsUpdated, map[string]string{
		"site_name":   settings.SiteName,
		"maintenance": strconv.FormatBool(settings.MaintenanceMode),
	})

	h.redirectNotice(w, r, "/admin/settings", "Settings saved.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/logs (+ CSV export)                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type logsPageData struct {
	viewdata.BaseVM
	Entries []adminapi.LogEntry
	Level   string
	Days    string
	Error   string
}

// logQuery builds the service-side filter from the request. Days is
// how far back to look; zero or absent means no lower bound.
func logQuery(r *http.Request) (adminapi.LogQuery, string, string) {
	level := strings.TrimSpace(r.URL.Query().Get("level"))
	days := strings.TrimSpace(r.URL.Query().Get("days"))

	q := adminapi.LogQuery{Level: level, Limit: 200}
	if n, err := strconv.Atoi(days); err == nil && n > 0 {
		q.Since = time.Now().AddDate(0, 0, -n)
	}
	return q, level, days
}

func (h *Handler) ServeLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	q, level, days := logQuery(r)

	data := logsPageData{
		BaseVM: viewdata.NewBaseVM(r, "Service Logs", "/admin/dashboard"),
		Level:  level,
		Days:   days,
	}

	entries, err := h.Admin.QueryLogs(ctx, q)
	if err != nil {
		h.Log.Error("admin: log query failed", zap.Error(err))
		data.Error = "Logs are unavailable right now."
	} else {
		data.Entries = entries
	}

	templates.Render(w, r, "admin_logs", data)
}

// HandleLogsExport streams the admin service's CSV export as a download.
func (h *Handler) HandleLogsExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	q, _, _ := logQuery(r)
	q.Limit = 0 // export everything the filter matches

	csvBytes, err := h.Admin.ExportLogs(ctx, q)
	if err != nil {
		h.Log.Error("admin: log export failed", zap.Error(err))
		h.redirectNotice(w, r, "/admin/logs", "Export failed. Please try again.")
		return
	}

	h.auditEvent(r, audit.EventLogsExported, map[string]string{
		"level": q.Level,
		"bytes": strconv.Itoa(len(csvBytes)),
	})

	filename := fmt.Sprintf("logs-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(csvBytes)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/messages – broadcast                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type broadcastPageData struct {
	viewdata.BaseVM
	Roles  []string
	Notice string
	Error  string
}

func (h *Handler) ServeBroadcast(w http.ResponseWriter, r *http.Request) {
	data := broadcastPageData{
		BaseVM: viewdata.NewBaseVM(r, "Broadcast", "/admin/dashboard"),
		Roles:  roleNames(),
		Notice: r.URL.Query().Get("notice"),
	}
	templates.Render(w, r, "admin_broadcast", data)
}

func (h *Handler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	targetRole := strings.TrimSpace(r.FormValue("role"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	content := strings.TrimSpace(r.FormValue("content"))

	if subject == "" || content == "" {
		h.redirectNotice(w, r, "/admin/messages", "Subject and message are both required.")
		return
	}
	if targetRole != "" {
		normalized, ok := roles.Normalize(targetRole)
		if !ok {
			h.redirectNotice(w, r, "/admin/messages", "Unknown target role.")
			return
		}
		targetRole = string(normalized)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	if err := h.Admin.SendMessage(ctx, targetRole, subject, content); err != nil {
		h.Log.Error("admin: broadcast failed",
			zap.String("role", targetRole),
			zap.Error(err))
		h.redirectNotice(w, r, "/admin/messages", "Broadcast failed. Please try again.")
		return
	}

	h.auditEvent(r, audit.EventBroadcastSent, map[string]string{
		"target_role": targetRole,
		"subject":     subject,
	})

	h.redirectNotice(w, r, "/admin/messages", "Broadcast sent.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func roleNames() []string {
	names := make([]string, 0, len(roles.All))
	for _, role := range roles.All {
		names = append(names, string(role))
	}
	return names
}

func (h *Handler) redirectNotice(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *Handler) auditEvent(r *http.Request, eventType string, details map[string]string) {
	if h.Audit == nil {
		return
	}
	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	event := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	}
	if user != nil {
		event.UserID = user.ID
		event.Email = user.Email
		event.Role = user.Role
	}
	if err := h.Audit.Log(ctx, event); err != nil {
		h.Log.Warn("audit write failed", zap.String("event", eventType), zap.Error(err))
	}
}
