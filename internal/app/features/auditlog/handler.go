// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/agrimitra/agrimitra/internal/app/features/errors"
	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	"go.uber.org/zap"
)

// Handler serves the audit trail pages of the admin console. Unlike the
// service log viewer, which proxies the admin service, these pages read
// the portal's own Mongo-backed event trail.
type Handler struct {
	Log    *zap.Logger
	Audit  *audit.Store
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(auditStore *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Audit:  auditStore,
		ErrLog: errLog,
	}
}
