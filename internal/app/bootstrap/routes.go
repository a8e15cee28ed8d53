// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	chatfeature "github.com/dalemusser/streamify/internal/app/features/chat"
	healthfeature "github.com/dalemusser/streamify/internal/app/features/health"
	usersfeature "github.com/dalemusser/streamify/internal/app/features/users"
	"github.com/dalemusser/streamify/internal/app/provision"
	"github.com/dalemusser/streamify/internal/app/relationship"
	requeststore "github.com/dalemusser/streamify/internal/app/store/friendrequests"
	groupstore "github.com/dalemusser/streamify/internal/app/store/groups"
	userstore "github.com/dalemusser/streamify/internal/app/store/users"
	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It wires the stores and services over
// the connected database, applies session middleware, and mounts the
// feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Profile updates and onboarding take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	users := userstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	groups := groupstore.New(deps.MongoDatabase)

	relationships := relationship.New(users, requests, logger)
	provisioner := provision.New(groups, users, streamClient, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Social API
	usersHandler := usersfeature.NewHandler(users, relationships, provisioner, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Chat provider tokens for the frontend websocket connection
	chatHandler := chatfeature.NewHandler(streamClient, logger)
	r.Mount("/chat", chatfeature.Routes(chatHandler, sessionMgr))

	// Built frontend assets with pre-compressed file support (gzip/brotli)
	if appCfg.StaticDir != "" {
		r.Handle("/*", fileserver.Handler("/", appCfg.StaticDir))
	}

	return r, nil
}
