// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/agrimitra/agrimitra/internal/app/services/adminapi"
	"github.com/agrimitra/agrimitra/internal/app/services/authapi"
	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/app/services/inventory"
	"github.com/agrimitra/agrimitra/internal/app/services/statistics"
	auditstore "github.com/agrimitra/agrimitra/internal/app/store/audit"
	reportstore "github.com/agrimitra/agrimitra/internal/app/store/reports"
)

// ConnectDB opens the Mongo connection and builds the external-service
// gateways. The gateways are plain HTTP clients; building them here
// keeps everything a handler depends on in one DBDeps bundle.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),

		Auth:      authapi.New(appCfg.AuthServiceURL, logger),
		Inventory: inventory.New(appCfg.InventoryServiceURL, logger),
		Admin: adminapi.New(appCfg.AdminServiceURL,
			appCfg.AdminClientID, appCfg.AdminClientSecret, appCfg.AdminTokenURL, logger),
		CropHealth: crophealth.New(appCfg.CropHealthServiceURL, logger),
		Stats:      statistics.New(appCfg.StatsServiceURL, logger),
	}, nil
}

// EnsureSchema creates the indexes the local stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := auditstore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	if err := reportstore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("report indexes: %w", err)
	}
	logger.Info("MongoDB indexes ensured")
	return nil
}
