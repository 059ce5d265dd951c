// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	accountsfeature "github.com/fittedapp/fitted/internal/app/features/accounts"
	authgooglefeature "github.com/fittedapp/fitted/internal/app/features/authgoogle"
	closetfeature "github.com/fittedapp/fitted/internal/app/features/closet"
	eventsfeature "github.com/fittedapp/fitted/internal/app/features/events"
	groupsfeature "github.com/fittedapp/fitted/internal/app/features/groups"
	healthfeature "github.com/fittedapp/fitted/internal/app/features/health"
	requestsfeature "github.com/fittedapp/fitted/internal/app/features/requests"
	"github.com/fittedapp/fitted/internal/app/lifecycle"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	eventstore "github.com/fittedapp/fitted/internal/app/store/events"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	oauthstatestore "github.com/fittedapp/fitted/internal/app/store/oauthstate"
	requeststore "github.com/fittedapp/fitted/internal/app/store/requests"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the fitted API.
//
// WAFFLE calls this after configuration, DB connection, schema setup,
// and Startup have completed. The stores and the lifecycle manager are
// assembled here and shared across features.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	groups := groupstore.New(db)
	events := eventstore.New(db)
	closet := closetstore.New(db)
	requests := requeststore.New(db)
	states := oauthstatestore.New(db)

	// Fresh user data on each request so profile edits and deleted
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(users))

	lc := lifecycle.New(lifecycle.Deps{
		DB:       db,
		Users:    users,
		Groups:   groups,
		Events:   events,
		Closet:   closet,
		Requests: requests,
		Files:    fileStore,
		Log:      logger,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context when a
	// valid cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	accountsHandler := accountsfeature.NewHandler(users, sessionMgr, fileStore, logger)
	r.Mount("/accounts", accountsfeature.Routes(accountsHandler))

	googleHandler := authgooglefeature.NewHandler(users, states, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	eventsHandler := eventsfeature.NewHandler(lc, events, groups, closet, fileStore, logger)
	closetHandler := closetfeature.NewHandler(lc, closet, groups, users, fileStore, logger)
	groupsHandler := groupsfeature.NewHandler(lc, groups, users, fileStore, logger)

	r.Mount("/groups", groupsfeature.Routes(groupsHandler, eventsHandler, closetHandler))
	r.Mount("/events", eventsfeature.Routes(eventsHandler))
	r.Mount("/closet", closetfeature.Routes(closetHandler))

	requestsHandler := requestsfeature.NewHandler(lc, requests, closet, users, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler))

	// Locally stored images are served straight from disk; S3 paths
	// resolve through presigned URLs instead.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	return r, nil
}
