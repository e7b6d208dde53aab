// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/agorahub/agorahub/internal/app/features/accounts"
	actionsfeature "github.com/agorahub/agorahub/internal/app/features/actions"
	commentsfeature "github.com/agorahub/agorahub/internal/app/features/comments"
	discussionsfeature "github.com/agorahub/agorahub/internal/app/features/discussions"
	groupsfeature "github.com/agorahub/agorahub/internal/app/features/groups"
	healthfeature "github.com/agorahub/agorahub/internal/app/features/health"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler assembles the HTTP routing tree.
//
// It creates the session manager, applies the session-loading
// middleware globally, and mounts a feature router per application
// area: accounts, groups, discussions, comments, and actions.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey,
		appCfg.SessionName,
		appCfg.SessionDomain,
		appCfg.SessionMaxAge,
		secure,
		logger,
	)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts: signup, email verification, login, logout
	accountsHandler := accountsfeature.NewHandler(db, sessionMgr, appMailer, appCfg.SiteName, appCfg.BaseURL, logger)
	r.Mount("/", accountsfeature.Routes(accountsHandler))

	// Groups and everything nested inside them
	groupsHandler := groupsfeature.NewHandler(db, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	discussionsHandler := discussionsfeature.NewHandler(db, logger)
	r.Mount("/groups/{groupID}/discussions", discussionsfeature.Routes(discussionsHandler, sessionMgr))

	actionsHandler := actionsfeature.NewHandler(db, logger)
	r.Mount("/groups/{groupID}/actions", actionsfeature.Routes(actionsHandler, sessionMgr))

	commentsHandler := commentsfeature.NewHandler(db, logger)
	r.Mount("/discussions/{discussionID}/comments", commentsfeature.Routes(commentsHandler, sessionMgr))

	return r, nil
}
