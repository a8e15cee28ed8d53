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
// ports, TLS, logging level, CORS, and request body limits. AppConfig is
// everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: streamify-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Stream Chat provider configuration
	StreamAPIKey    string // Stream application API key
	StreamAPISecret string // Stream application API secret (signs server and user tokens)
	StreamBaseURL   string // Stream REST endpoint override (blank means the hosted default)

	// Group provisioning reconciliation
	ReconcileInterval      time.Duration // How often the reconciler scans for stale provisioning records
	ProvisioningStaleAfter time.Duration // Age at which an unfinished provisioning record is considered abandoned

	// Static frontend assets (blank disables static serving)
	StaticDir string // Directory with the built frontend, served at /
}
