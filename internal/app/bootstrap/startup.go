// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/resources"
	"github.com/agrimitra/agrimitra/internal/app/system/refresh"
	"github.com/agrimitra/agrimitra/internal/app/system/viewdata"
)

// settingsRefresher re-pulls platform settings in the background so an
// admin changing the site name (or flipping maintenance mode) on one
// instance shows up on all of them. Stopped in Shutdown.
var settingsRefresher *refresh.Refresher

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.SetSiteName(appCfg.SiteName)

	if appCfg.SettingsRefreshInterval <= 0 {
		return nil
	}

	settingsRefresher = refresh.New("platform-settings", appCfg.SettingsRefreshInterval, 0,
		func(ctx context.Context) error {
			settings, err := deps.Admin.GetSettings(ctx)
			if err != nil {
				return err
			}
			if settings.SiteName != "" {
				viewdata.SetSiteName(settings.SiteName)
			}
			return nil
		}, logger)
	settingsRefresher.Start()

	return nil
}
