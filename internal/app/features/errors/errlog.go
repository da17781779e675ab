// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/agrimitra/agrimitra/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a client error and renders an error page with the
// given user-facing message and back URL.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Warn(op,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	w.WriteHeader(http.StatusBadRequest)
	e.renderError(w, r, "Invalid request", userMsg, backURL)
}

// LogServerError logs a server-side failure and renders an error page.
// Dashboard fetch failures should NOT come through here; those degrade
// to a zeroed display with an inline message instead of an error page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Error(op,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	e.renderError(w, r, "Something went wrong", userMsg, backURL)
}

func (e *ErrorLogger) renderError(w http.ResponseWriter, r *http.Request, title, msg, backURL string) {
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "error_page", pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	})
}
