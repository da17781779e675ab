// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agrimitra/agrimitra/internal/app/services/adminapi"
	"github.com/agrimitra/agrimitra/internal/app/services/authapi"
	"github.com/agrimitra/agrimitra/internal/app/services/crophealth"
	"github.com/agrimitra/agrimitra/internal/app/services/inventory"
	"github.com/agrimitra/agrimitra/internal/app/services/statistics"
)

// DBDeps holds database and back-end dependencies for the app: the
// Mongo connection for local state plus the gateways to the external
// services the portal fronts.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Auth       authapi.Gateway
	Inventory  inventory.Gateway
	Admin      adminapi.Gateway
	CropHealth crophealth.Gateway
	Stats      statistics.Gateway
}
