// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/agrimitra/agrimitra/internal/app/system/auth"
	"github.com/agrimitra/agrimitra/internal/app/system/authz"
	"github.com/agrimitra/agrimitra/internal/app/system/roles"
)

// DefaultSiteName is used until admin settings override it.
const DefaultSiteName = "AgriMitra"

// siteNameMu protects siteName: the settings refresher and the admin
// settings handler both write it while every page render reads it.
var siteNameMu sync.RWMutex

var siteName = DefaultSiteName

// SetSiteName overrides the site name shown in page chrome. Bootstrap
// sets it at startup; the settings refresher and the admin settings
// handler update it at runtime.
func SetSiteName(name string) {
	if name == "" {
		return
	}
	siteNameMu.Lock()
	siteName = name
	siteNameMu.Unlock()
}

// SiteName returns the current site name.
func SiteName() string {
	siteNameMu.RLock()
	defer siteNameMu.RUnlock()
	return siteName
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Role-driven navigation
	Sidebar     []roles.NavItem
	LandingPath string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    SiteName(),
		IsLoggedIn:  signedIn,
		Role:        string(role),
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if signedIn {
		vm.Sidebar = roles.Sidebar(string(role))
		vm.LandingPath = roles.LandingPath(string(role))
	}

	return vm
}

// UserID returns the signed-in user's ID, or "" when anonymous.
func UserID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
