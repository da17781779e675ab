// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/agrimitra/agrimitra/internal/app/store/audit"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
)

// listData is the view model for the audit trail list page.
type listData struct {
	viewdata.BaseVM

	Events []audit.Event

	// Filters as submitted, echoed back into the form.
	Category  string
	EventType string
	Email     string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// failedData is the view model for the failed sign-ins page.
type failedData struct {
	viewdata.BaseVM

	Events []audit.Event
	Days   int
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
		{Value: audit.CategorySecurity, Label: "Security"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedBadCredential,
		audit.EventLoginFailedRateLimit,
		audit.EventLoginFailedUpstream,
		audit.EventLogout,
		audit.EventSignupSuccess,
		audit.EventSignupFailed,
	}

	adminEvents := []string{
		audit.EventBroadcastSent,
		audit.EventSettingsUpdated,
		audit.EventLogsExported,
		audit.EventReportCleared,
	}

	securityEvents := []string{
		audit.EventAccessDenied,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategorySecurity:
		return securityEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(securityEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		all = append(all, securityEvents...)
		return all
	default:
		return nil
	}
}
