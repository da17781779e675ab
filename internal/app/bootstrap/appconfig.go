// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS and request size limits. AppConfig is
// where everything specific to this portal lives: the Mongo connection
// for local state (audit trail, saved reports), session cookies, and
// the base URLs of the external services the portal fronts.
type AppConfig struct {
	// MongoDB connection configuration (audit events, saved reports)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // secret key for signing session cookies
	SessionName   string        // cookie name
	SessionDomain string        // cookie domain (blank means current host)
	SessionMaxAge time.Duration // how long a signed-in session lasts

	// External service base URLs
	AuthServiceURL       string // login/signup
	InventoryServiceURL  string // stock, requests, transactions
	AdminServiceURL      string // users, settings, logs, messages
	CropHealthServiceURL string // leaf-image inference
	StatsServiceURL      string // historical production data

	// OAuth2 client-credentials for the admin service. Blank client ID
	// means plain HTTP (local dev against an unauthenticated service).
	AdminClientID     string
	AdminClientSecret string
	AdminTokenURL     string

	// Break-glass admin account that works while the auth service is
	// down. Both must be set for it to be active; the hash is bcrypt.
	BootstrapAdminEmail        string
	BootstrapAdminPasswordHash string

	// Display name shown in page titles; platform settings from the
	// admin service override it at runtime.
	SiteName string

	// How often to re-pull platform settings from the admin service.
	// Zero disables the background refresh.
	SettingsRefreshInterval time.Duration
}
