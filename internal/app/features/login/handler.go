// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/services/authapi"
	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/ratelimit"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
	"github.com/agrimitra/agrimitra/internal/app/system/timeouts"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
)

// BootstrapAdmin is a locally configured admin credential that works
// even when the auth service is down.
type BootstrapAdmin struct {
	Email        string
	PasswordHash string // bcrypt
}

func (b BootstrapAdmin) enabled() bool {
	return b.Email != "" && b.PasswordHash != ""
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Auth       authapi.Gateway
	Audit      *audit.Store
	Limiter    *ratelimit.LoginLimiter
	Bootstrap  BootstrapAdmin
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	authGW authapi.Gateway,
	auditStore *audit.Store,
	limiter *ratelimit.LoginLimiter,
	bootstrap BootstrapAdmin,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Auth:       authGW,
		Audit:      auditStore,
		Limiter:    limiter,
		Bootstrap:  bootstrap,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

type signupFormData struct {
	viewdata.BaseVM
	Error string
	Name  string
	Email string
	Role  string
	Roles []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	returnURL := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderLoginError(w, r, "Please enter your email and password.", email, returnURL)
		return
	}

	if ok, reason := h.Limiter.Check(r, email); !ok {
		h.audit(r, audit.EventLoginFailedRateLimit, email, "", "", false, reason)
		h.renderLoginError(w, r, "Too many attempts. Please wait a minute and try again.", email, returnURL)
		return
	}

	// Bootstrap admin works without the auth service.
	if h.Bootstrap.enabled() && email == strings.ToLower(h.Bootstrap.Email) {
		if err := bcrypt.CompareHashAndPassword([]byte(h.Bootstrap.PasswordHash), []byte(password)); err != nil {
			h.audit(r, audit.EventLoginFailedBadCredential, email, "", "", false, "bootstrap password mismatch")
			h.renderLoginError(w, r, "Invalid email or password.", email, returnURL)
			return
		}
		h.establishSession(w, r, &auth.SessionUser{
			ID:    "bootstrap-admin",
			Name:  "Administrator",
			Email: email,
			Role:  string(roles.Admin),
		}, returnURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	session, err := h.Auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, authapi.ErrInvalidCredentials) {
			h.audit(r, audit.EventLoginFailedBadCredential, email, "", "", false, "auth service rejected credentials")
			h.renderLoginError(w, r, "Invalid email or password.", email, returnURL)
			return
		}
		h.Log.Error("login: auth service unavailable", zap.Error(err))
		h.audit(r, audit.EventLoginFailedUpstream, email, "", "", false, err.Error())
		h.renderLoginError(w, r, "Sign-in is temporarily unavailable. Please try again shortly.", email, returnURL)
		return
	}

	role, ok := roles.Normalize(session.User.Role)
	if !ok {
		h.Log.Warn("login: auth service returned unknown role",
			zap.String("role", session.User.Role))
		h.renderLoginError(w, r, "Your account has an unrecognized role. Contact support.", email, returnURL)
		return
	}

	h.Limiter.ResetEmail(email)
	h.establishSession(w, r, &auth.SessionUser{
		ID:        session.User.ID,
		Name:      session.User.FullName,
		Email:     session.User.Email,
		Role:      string(role),
		RoleID:    session.User.RoleID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, returnURL)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create Account", "/"),
		Roles:  signupRoles(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	roleInput := r.FormValue("role")

	role, roleOK := roles.Normalize(roleInput)
	switch {
	case name == "" || email == "" || password == "":
		h.renderSignupError(w, r, "All fields are required.", name, email, roleInput)
		return
	case len(password) < 8:
		h.renderSignupError(w, r, "Password must be at least 8 characters.", name, email, roleInput)
		return
	case !roleOK || role == roles.Admin:
		h.renderSignupError(w, r, "Please choose a valid role.", name, email, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.External())
	defer cancel()

	session, err := h.Auth.Signup(ctx, authapi.SignupRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     string(role),
	})
	if err != nil {
		h.Log.Error("signup: auth service call failed", zap.Error(err))
		h.audit(r, audit.EventSignupFailed, email, string(role), "", false, err.Error())
		h.renderSignupError(w, r, "Could not create your account. Please try again shortly.", name, email, roleInput)
		return
	}

	h.audit(r, audit.EventSignupSuccess, email, string(role), session.User.ID, true, "")
	h.establishSession(w, r, &auth.SessionUser{
		ID:        session.User.ID,
		Name:      session.User.FullName,
		Email:     session.User.Email,
		Role:      string(role),
		RoleID:    session.User.RoleID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// establishSession writes the session cookie and redirects to the
// return URL or the role's landing page.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, u *auth.SessionUser, returnURL string) {
	if err := h.SessionMgr.Login(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Could not sign you in. Please try again.", "/login")
		return
	}

	h.audit(r, audit.EventLoginSuccess, u.Email, u.Role, u.ID, true, "")

	dest := roles.LandingPath(u.Role)
	if safeReturnURL(returnURL) {
		dest = returnURL
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// safeReturnURL accepts only same-site absolute paths.
func safeReturnURL(u string) bool {
	return strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//")
}

func (h *Handler) audit(r *http.Request, eventType, email, role, userID string, success bool, reason string) {
	if h.Audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Audit.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		Email:         email,
		Role:          role,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: reason,
	}); err != nil {
		h.Log.Warn("audit write failed", zap.String("event", eventType), zap.Error(err))
	}
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, msg, email, returnURL string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: returnURL,
	})
}

func (h *Handler) renderSignupError(w http.ResponseWriter, r *http.Request, msg, name, email, role string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "signup", signupFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create Account", "/"),
		Error:  msg,
		Name:   name,
		Email:  email,
		Role:   role,
		Roles:  signupRoles(),
	})
}

// signupRoles lists every self-service role; admin accounts are never
// created through signup.
func signupRoles() []string {
	names := make([]string, 0, len(roles.All)-1)
	for _, role := range roles.All {
		if role == roles.Admin {
			continue
		}
		names = append(names, string(role))
	}
	return names
}
