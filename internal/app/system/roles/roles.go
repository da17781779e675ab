// internal/app/system/roles/roles.go

// Package roles defines the closed set of platform roles and the pure
// role-to-view mappings that drive post-login routing and sidebar chrome.
//
// Both LandingPath and Sidebar are total: an unknown or unmapped role
// falls back to a generic landing path and a minimal sidebar instead of
// producing a blank screen.
package roles

import "strings"

// Role is one of the fixed platform user categories.
type Role string

const (
	Farmer            Role = "farmer"
	Dealer            Role = "dealer"
	Wholesaler        Role = "wholesaler"
	Retailer          Role = "retailer"
	GovernmentAgency  Role = "government agency"
	NGO               Role = "ngo"
	ResourceProvider  Role = "resource provider"
	AgricultureExpert Role = "agriculture expert"
	Admin             Role = "admin"
)

// All lists every known role. The order matches the sidebar/dashboard
// ordering used across the portal.
var All = []Role{
	Farmer,
	Dealer,
	Wholesaler,
	Retailer,
	GovernmentAgency,
	NGO,
	ResourceProvider,
	AgricultureExpert,
	Admin,
}

// aliases maps spellings the external auth service has been seen to emit
// onto canonical roles. The service is inconsistent about plurals
// ("Government Agencies", "NGOs") and spacing.
var aliases = map[string]Role{
	"government agencies": GovernmentAgency,
	"govt agency":         GovernmentAgency,
	"ngos":                NGO,
	"agri expert":         AgricultureExpert,
}

// Normalize folds an auth-service role string onto a canonical Role.
// The second return is false when the string matches no known role.
func Normalize(s string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.Join(strings.Fields(key), " ")
	if r, ok := aliases[key]; ok {
		return r, true
	}
	r := Role(key)
	for _, known := range All {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether s names a known role under Normalize.
func Valid(s string) bool {
	_, ok := Normalize(s)
	return ok
}

// GenericLandingPath is returned for unknown roles so routing never dead-ends.
const GenericLandingPath = "/dashboard"

var landingPaths = map[Role]string{
	Farmer:            "/farmer/dashboard",
	Dealer:            "/dealer/dashboard",
	Wholesaler:        "/wholesaler/dashboard",
	Retailer:          "/retailer/dashboard",
	GovernmentAgency:  "/agency/dashboard",
	NGO:               "/ngo/dashboard",
	ResourceProvider:  "/provider/dashboard",
	AgricultureExpert: "/expert/dashboard",
	Admin:             "/admin/dashboard",
}

// LandingPath returns the post-login landing path for a role string.
// Unknown roles get GenericLandingPath.
func LandingPath(role string) string {
	r, ok := Normalize(role)
	if !ok {
		return GenericLandingPath
	}
	return landingPaths[r]
}

// NavItem is one sidebar navigation entry.
type NavItem struct {
	Path  string
	Label string
	Icon  string
}

// commonNav entries appear for every signed-in role.
var commonNav = []NavItem{
	{Path: "/messages", Label: "Messages", Icon: "mail"},
	{Path: "/reports", Label: "Saved Reports", Icon: "chart"},
}

var sidebars = map[Role][]NavItem{
	Farmer: {
		{Path: "/farmer/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/crop-health", Label: "Crop Health", Icon: "leaf"},
		{Path: "/statistics", Label: "Crop Statistics", Icon: "trend"},
	},
	Dealer: {
		{Path: "/dealer/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/requests", Label: "Requests", Icon: "swap"},
	},
	Wholesaler: {
		{Path: "/wholesaler/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/requests", Label: "Requests", Icon: "swap"},
	},
	Retailer: {
		{Path: "/retailer/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/requests", Label: "Requests", Icon: "swap"},
	},
	GovernmentAgency: {
		{Path: "/agency/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/statistics", Label: "Crop Statistics", Icon: "trend"},
	},
	NGO: {
		{Path: "/ngo/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/statistics", Label: "Crop Statistics", Icon: "trend"},
	},
	ResourceProvider: {
		{Path: "/provider/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/requests", Label: "Requests", Icon: "swap"},
	},
	AgricultureExpert: {
		{Path: "/expert/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/crop-health", Label: "Crop Health", Icon: "leaf"},
	},
	Admin: {
		{Path: "/admin/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/admin/users", Label: "Users", Icon: "people"},
		{Path: "/admin/settings", Label: "Settings", Icon: "gear"},
		{Path: "/admin/audit", Label: "Audit Trail", Icon: "shield"},
	},
}

// Sidebar returns the navigation descriptor set for a role string.
// Unknown roles get just the common entries; the result is never nil.
func Sidebar(role string) []NavItem {
	r, ok := Normalize(role)
	if !ok {
		return append([]NavItem(nil), commonNav...)
	}
	items := append([]NavItem(nil), sidebars[r]...)
	return append(items, commonNav...)
}
