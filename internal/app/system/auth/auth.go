package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrimitra/agrimitra/internal/app/system/roles"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userName     = "user_name"
	userEmail    = "user_email"
	userRole     = "user_role"
	userRoleID   = "user_role_id"
	userToken    = "bearer_token"
	userTokenExp = "token_expiry" // unix seconds, 0 when no exp claim
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID     string
	Name   string
	Email  string
	Role   string
	RoleID string // scopes this role's records in the external services

	// Token is the bearer token the auth service issued at sign-in.
	// ExpiresAt is its exp claim; zero means the token carries none.
	// LoadSessionUser drops the session once ExpiresAt passes, so an
	// expired token turns the next guarded request into a login redirect.
	Token     string
	ExpiresAt time.Time
}

// TokenExpired reports whether the bearer token's deadline has passed.
// Tokens without an exp claim never expire here; the cookie MaxAge
// still bounds the session.
func (u *SessionUser) TokenExpired(now time.Time) bool {
	return !u.ExpiresAt.IsZero() && now.After(u.ExpiresAt)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context for tests,
// bypassing the session middleware.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie session store and the auth middleware.
// It is injected into features rather than reached through a package
// global so handlers can be tested against their own manager.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger

	// OnDenied, when set, observes role-gate rejections. Bootstrap points
	// it at the audit trail.
	OnDenied func(r *http.Request, u *SessionUser)
}

// NewSessionManager builds a SessionManager backed by a gorilla cookie
// store. The `secure` flag controls whether cookies are marked Secure and
// which SameSite mode is used: production wants Secure + SameSite=None,
// local dev over http://localhost wants secure=false so cookies are
// accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store (logout needs its options to
// build a matching deletion cookie).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the request's session, decoding the cookie if present.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Login persists the identity into the session cookie and makes it the
// current session. No server-side record is kept; the cookie is the
// session.
func (sm *SessionManager) Login(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	sess.Values[userRole] = u.Role
	sess.Values[userRoleID] = u.RoleID
	sess.Values[userToken] = u.Token
	var expUnix int64
	if !u.ExpiresAt.IsZero() {
		expUnix = u.ExpiresAt.Unix()
	}
	sess.Values[userTokenExp] = expUnix
	return sess.Save(r, w)
}

// Logout clears both the decoded session values and the cookie itself.
// A subsequent request through LoadSessionUser carries no user.
func (sm *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Warn("session decode failed during logout", zap.Error(err))
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1 // delete immediately
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser rehydrates the session user into the request context on
// every request. The rehydrated identity is trusted locally; no network
// validation against the auth service is performed.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:     getString(sess, userIDKey),
				Name:   getString(sess, userName),
				Email:  getString(sess, userEmail),
				Role:   getString(sess, userRole),
				RoleID: getString(sess, userRoleID),
				Token:  getString(sess, userToken),
			}
			if expUnix, ok := sess.Values[userTokenExp].(int64); ok && expUnix > 0 {
				u.ExpiresAt = time.Unix(expUnix, 0)
			}

			if u.TokenExpired(time.Now()) {
				// The auth service no longer honors this token; drop the
				// session so the guards send the user back to /login.
				sm.log.Info("session token expired",
					zap.String("user_id", u.ID),
					zap.Time("expired_at", u.ExpiresAt))
				for k := range sess.Values {
					delete(sess.Values, k)
				}
				sess.Options.MaxAge = -1
				_ = sess.Save(r, w)
			} else {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireRole gates the wrapped handler on the caller's role. The decision
// is re-derived on every request, never cached, since the session can
// change between requests. Three outcomes, no fourth:
//   - no session          → login redirect (as RequireSignedIn)
//   - role in allowed set → wrapped handler (an empty set means any
//     authenticated role)
//   - role not in set     → the access-denied view rendered in place
//     with 403; no redirect, so the URL the user tried stays visible.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[roles.Role]struct{}, len(allowed))
	for _, raw := range allowed {
		if role, ok := roles.Normalize(raw); ok {
			set[role] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			if len(set) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if role, known := roles.Normalize(u.Role); known {
				if _, has := set[role]; has {
					next.ServeHTTP(w, r)
					return
				}
			}

			sm.renderDenied(w, r, u)
		})
	}
}

// deniedData is the view model for the in-place access-denied page.
type deniedData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

func (sm *SessionManager) renderDenied(w http.ResponseWriter, r *http.Request, u *SessionUser) {
	sm.log.Debug("access denied",
		zap.String("path", r.URL.Path),
		zap.String("role", u.Role))

	if sm.OnDenied != nil {
		sm.OnDenied(r, u)
	}

	if !wantsHTML(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", deniedData{
		Title:      "Access denied",
		IsLoggedIn: true,
		Role:       u.Role,
		UserName:   u.Name,
		Message:    "You don't have permission to view this page.",
		BackURL:    roles.LandingPath(u.Role),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}

	// Non-HTML (API) callers: plain 401
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	// Preserve path + query as a return param.
	u := *r.URL
	return u.RequestURI()
}
