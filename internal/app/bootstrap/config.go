// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// appConfigKeys defines the configuration keys for AgriMitra.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: AGRIMITRA_MONGO_URI, AGRIMITRA_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "agrimitra", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "agrimitra-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Signed-in session lifetime (e.g., 12h, 30m)"},

	// External services
	{Name: "auth_service_url", Default: "http://localhost:5000", Desc: "Auth service base URL"},
	{Name: "inventory_service_url", Default: "http://localhost:5001", Desc: "Inventory/transactions service base URL"},
	{Name: "admin_service_url", Default: "http://localhost:5002", Desc: "Admin service base URL"},
	{Name: "crophealth_service_url", Default: "http://localhost:5003", Desc: "Crop-health inference service base URL"},
	{Name: "stats_service_url", Default: "http://localhost:5004", Desc: "Historical statistics service base URL"},

	// Admin service OAuth2 client credentials
	{Name: "admin_client_id", Default: "", Desc: "OAuth2 client ID for the admin service (blank disables)"},
	{Name: "admin_client_secret", Default: "", Desc: "OAuth2 client secret for the admin service"},
	{Name: "admin_token_url", Default: "", Desc: "OAuth2 token endpoint for the admin service"},

	// Break-glass admin
	{Name: "bootstrap_admin_email", Default: "", Desc: "Email of the break-glass admin account (blank disables)"},
	{Name: "bootstrap_admin_password_hash", Default: "", Desc: "bcrypt hash of the break-glass admin password"},

	{Name: "site_name", Default: "AgriMitra", Desc: "Site display name"},
	{Name: "settings_refresh_interval", Default: "5m", Desc: "How often to re-pull platform settings (0 disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, AGRIMITRA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AGRIMITRA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		AuthServiceURL:       appValues.String("auth_service_url"),
		InventoryServiceURL:  appValues.String("inventory_service_url"),
		AdminServiceURL:      appValues.String("admin_service_url"),
		CropHealthServiceURL: appValues.String("crophealth_service_url"),
		StatsServiceURL:      appValues.String("stats_service_url"),

		AdminClientID:     appValues.String("admin_client_id"),
		AdminClientSecret: appValues.String("admin_client_secret"),
		AdminTokenURL:     appValues.String("admin_token_url"),

		BootstrapAdminEmail:        appValues.String("bootstrap_admin_email"),
		BootstrapAdminPasswordHash: appValues.String("bootstrap_admin_password_hash"),

		SiteName:                appValues.String("site_name"),
		SettingsRefreshInterval: appValues.Duration("settings_refresh_interval", 5*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	for name, u := range map[string]string{
		"auth_service_url":       appCfg.AuthServiceURL,
		"inventory_service_url":  appCfg.InventoryServiceURL,
		"admin_service_url":      appCfg.AdminServiceURL,
		"crophealth_service_url": appCfg.CropHealthServiceURL,
		"stats_service_url":      appCfg.StatsServiceURL,
	} {
		if u == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}

	// Break-glass admin is all-or-nothing, and a malformed hash would
	// otherwise only surface at the first login attempt.
	email, hash := appCfg.BootstrapAdminEmail, appCfg.BootstrapAdminPasswordHash
	if (email == "") != (hash == "") {
		return fmt.Errorf("bootstrap_admin_email and bootstrap_admin_password_hash must be set together")
	}
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return fmt.Errorf("bootstrap_admin_password_hash is not a bcrypt hash: %w", err)
		}
	}

	if appCfg.AdminClientID != "" && appCfg.AdminTokenURL == "" {
		return fmt.Errorf("admin_token_url must be set when admin_client_id is set")
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be changed from the dev default in production")
	}

	return nil
}
