// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	oauthstatestore "github.com/fittedapp/fitted/internal/app/store/oauthstate"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/app/system/workers"
	"go.uber.org/zap"
)

// Shared resources built during Startup and consumed by BuildHandler
// and Shutdown.
var (
	fileStore    storage.Store
	stateCleanup *workers.StateCleanup
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built:
// operation timeouts, the blob store, and the background state sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.ConfigureFromEnv()

	var err error
	switch appCfg.StorageType {
	case "s3":
		fileStore, err = storage.NewS3(ctx, storage.S3Config{
			Region: appCfg.StorageS3Region,
			Bucket: appCfg.StorageS3Bucket,
			Prefix: appCfg.StorageS3Prefix,
		})
	default:
		fileStore, err = storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
	}
	if err != nil {
		logger.Error("storage init failed",
			zap.String("type", appCfg.StorageType),
			zap.Error(err))
		return err
	}
	logger.Info("file storage initialized", zap.String("type", appCfg.StorageType))

	stateCleanup = workers.NewStateCleanup(
		oauthstatestore.New(deps.MongoDatabase), logger, 10*time.Minute)
	stateCleanup.Start()

	return nil
}
