// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/streamify/internal/app/provision"
	groupstore "github.com/dalemusser/streamify/internal/app/store/groups"
	"github.com/dalemusser/streamify/internal/app/stream"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// streamClient and reconciler are created in Startup and shared with
// BuildHandler and Shutdown, which WAFFLE calls with the same deps but
// no way to thread extra state between hooks.
var (
	streamClient *stream.Client
	reconciler   *provision.Reconciler
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It constructs the Stream client and starts the background reconciler
// that cleans up group records whose channel provisioning never finished.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var err error
	streamClient, err = stream.NewClient(appCfg.StreamAPIKey, appCfg.StreamAPISecret, appCfg.StreamBaseURL, logger)
	if err != nil {
		logger.Error("stream client init failed", zap.Error(err))
		return err
	}

	reconciler = provision.NewReconciler(
		groupstore.New(deps.MongoDatabase),
		streamClient,
		logger,
		appCfg.ReconcileInterval,
		appCfg.ProvisioningStaleAfter,
	)
	reconciler.Start()

	return nil
}
