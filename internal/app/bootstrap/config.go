// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Streamify.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: STREAMIFY_MONGO_URI, STREAMIFY_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "streamify", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "streamify-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Stream Chat provider
	{Name: "stream_api_key", Default: "", Desc: "Stream application API key"},
	{Name: "stream_api_secret", Default: "", Desc: "Stream application API secret"},
	{Name: "stream_base_url", Default: "", Desc: "Stream REST endpoint override (blank means the hosted default)"},

	// Group provisioning reconciliation
	{Name: "reconcile_interval", Default: "1m", Desc: "How often to scan for abandoned group provisioning records (e.g., 1m, 30s)"},
	{Name: "provisioning_stale_after", Default: "10m", Desc: "Age at which an unfinished provisioning record is considered abandoned"},

	// Static frontend assets
	{Name: "static_dir", Default: "", Desc: "Directory with the built frontend, served at / (blank disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STREAMIFY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		StreamAPIKey:    appValues.String("stream_api_key"),
		StreamAPISecret: appValues.String("stream_api_secret"),
		StreamBaseURL:   appValues.String("stream_base_url"),

		ReconcileInterval:      appValues.Duration("reconcile_interval", time.Minute),
		ProvisioningStaleAfter: appValues.Duration("provisioning_stale_after", 10*time.Minute),

		StaticDir: appValues.String("static_dir"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Streamify validates the MongoDB URI format and requires Stream
// credentials, since every group the service creates must have a backing
// chat channel.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.StreamAPIKey == "" || appCfg.StreamAPISecret == "" {
		return fmt.Errorf("stream_api_key and stream_api_secret are required")
	}

	if appCfg.ReconcileInterval <= 0 {
		return fmt.Errorf("reconcile_interval must be positive")
	}
	if appCfg.ProvisioningStaleAfter <= 0 {
		return fmt.Errorf("provisioning_stale_after must be positive")
	}

	return nil
}
