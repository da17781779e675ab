// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	aboutfeature "github.com/agrimitra/agrimitra/internal/app/features/about"
	adminfeature "github.com/agrimitra/agrimitra/internal/app/features/admin"
	auditlogfeature "github.com/agrimitra/agrimitra/internal/app/features/auditlog"
	contactfeature "github.com/agrimitra/agrimitra/internal/app/features/contact"
	crophealthfeature "github.com/agrimitra/agrimitra/internal/app/features/crophealth"
	dashboardfeature "github.com/agrimitra/agrimitra/internal/app/features/dashboard"
	errorsfeature "github.com/agrimitra/agrimitra/internal/app/features/errors"
	healthfeature "github.com/agrimitra/agrimitra/internal/app/features/health"
	homefeature "github.com/agrimitra/agrimitra/internal/app/features/home"
	loginfeature "github.com/agrimitra/agrimitra/internal/app/features/login"
	logoutfeature "github.com/agrimitra/agrimitra/internal/app/features/logout"
	messagesfeature "github.com/agrimitra/agrimitra/internal/app/features/messages"
	reportsfeature "github.com/agrimitra/agrimitra/internal/app/features/reports"
	requestsfeature "github.com/agrimitra/agrimitra/internal/app/features/requests"
	statisticsfeature "github.com/agrimitra/agrimitra/internal/app/features/statistics"
	termsfeature "github.com/agrimitra/agrimitra/internal/app/features/terms"
	auditstore "github.com/agrimitra/agrimitra/internal/app/store/audit"
	reportstore "github.com/agrimitra/agrimitra/internal/app/store/reports"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/ratelimit"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// loginLimiter runs cleanup goroutines; Shutdown stops them.
var loginLimiter *ratelimit.LoginLimiter

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. It creates the session manager,
// boots the template engine, and mounts a feature router per portal
// area: the public landing and auth pages, the role dashboards, the
// trading workflow, crop health, statistics, reports, messages, and the
// admin console.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditStore := auditstore.New(deps.MongoDatabase)
	reportStore := reportstore.New(deps.MongoDatabase)

	// Role-gate rejections land in the portal audit trail.
	sessionMgr.OnDenied = func(req *http.Request, u *auth.SessionUser) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := auditStore.Log(ctx, auditstore.Event{
			Category:  auditstore.CategorySecurity,
			EventType: auditstore.EventAccessDenied,
			UserID:    u.ID,
			Email:     u.Email,
			Role:      u.Role,
			IP:        ratelimit.ClientIP(req),
			UserAgent: req.UserAgent(),
			Success:   false,
			Details:   map[string]string{"path": req.URL.Path},
		}); err != nil {
			logger.Warn("audit write failed", zap.Error(err))
		}
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context so any
	// handler can call auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Every POST in the portal is a form submit; templates carry the
	// token via viewdata.BaseVM.
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.CropHealth, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public landing and info pages.
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))
	r.Mount("/about", aboutfeature.Routes(aboutfeature.NewHandler(logger)))
	r.Mount("/contact", contactfeature.Routes(contactfeature.NewHandler(logger)))
	r.Mount("/terms", termsfeature.Routes(termsfeature.NewHandler(logger)))

	// Authentication.
	loginLimiter = ratelimit.NewLoginLimiter()
	loginHandler := loginfeature.NewHandler(
		sessionMgr, errLog, deps.Auth, auditStore,
		loginLimiter,
		loginfeature.BootstrapAdmin{
			Email:        appCfg.BootstrapAdminEmail,
			PasswordHash: appCfg.BootstrapAdminPasswordHash,
		},
		logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditStore, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role dashboards. The role prefixes sit at the top level, and the
	// /admin prefix is shared with the console below.
	dashboardHandler := dashboardfeature.NewHandler(
		deps.Inventory, deps.Stats, deps.CropHealth, deps.Admin, logger)
	dashboardfeature.Mount(r, dashboardHandler, sessionMgr)

	adminHandler := adminfeature.NewHandler(deps.Admin, auditStore, logger)
	auditHandler := auditlogfeature.NewHandler(auditStore, errLog, logger)
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(sessionMgr.RequireRole(string(roles.Admin)))
		ar.Get("/dashboard", dashboardHandler.ServeAdmin)
		adminfeature.Mount(ar, adminHandler)
		auditlogfeature.Mount(ar, auditHandler)
	})

	// Trading workflow.
	requestsHandler := requestsfeature.NewHandler(deps.Inventory, errLog, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler, sessionMgr))

	// Crop health diagnosis.
	cropHandler := crophealthfeature.NewHandler(deps.CropHealth, errLog, logger)
	r.Mount("/crop-health", crophealthfeature.Routes(cropHandler, sessionMgr))

	// Historical statistics explorer and saved reports.
	statsHandler := statisticsfeature.NewHandler(deps.Stats, logger)
	r.Mount("/statistics", statisticsfeature.Routes(statsHandler, sessionMgr))

	reportsHandler := reportsfeature.NewHandler(reportStore, deps.Stats, auditStore, errLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	// Message inbox.
	messagesHandler := messagesfeature.NewHandler(deps.Admin, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	return r, nil
}
