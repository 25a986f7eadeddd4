// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	approvalsfeature "github.com/membergate/membergate/internal/app/features/approvals"
	contentfeature "github.com/membergate/membergate/internal/app/features/content"
	errorsfeature "github.com/membergate/membergate/internal/app/features/errors"
	groupsfeature "github.com/membergate/membergate/internal/app/features/groups"
	healthfeature "github.com/membergate/membergate/internal/app/features/health"
	homefeature "github.com/membergate/membergate/internal/app/features/home"
	loginfeature "github.com/membergate/membergate/internal/app/features/login"
	logoutfeature "github.com/membergate/membergate/internal/app/features/logout"
	membersfeature "github.com/membergate/membergate/internal/app/features/members"
	registerfeature "github.com/membergate/membergate/internal/app/features/register"
	settingsfeature "github.com/membergate/membergate/internal/app/features/settings"
	"github.com/membergate/membergate/internal/app/registration"
	approvalstore "github.com/membergate/membergate/internal/app/store/approvals"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	userstore "github.com/membergate/membergate/internal/app/store/users"
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/membergate/membergate/internal/app/system/mailer"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It creates the session manager, boots the
// template engine, builds the shared registration workflow, and mounts
// feature routers: the public content and registration surface plus the
// admin area for groups, members, content, approvals, and settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// One group store for the whole app. Its restricted-categories cache
	// is invalidated per instance, so every writer and reader must share
	// this one or the decision engine would serve stale restrictions.
	groups := groupstore.New(deps.MongoDatabase)

	// Shared registration workflow: submit, mail, approve.
	workflow := &registration.Workflow{
		Users:       userstore.New(deps.MongoDatabase),
		Groups:      groups,
		Memberships: membershipstore.New(deps.MongoDatabase),
		Approvals:   approvalstore.New(deps.MongoDatabase),
		Mailer: mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger),
		Client:   deps.MongoClient,
		Log:      logger,
		SiteName: appCfg.SiteName,
		BaseURL:  appCfg.BaseURL,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Membership registration (invitation links land here)
	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, workflow, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Gated content: public viewing plus the denial landing page
	contentHandler := contentfeature.NewHandler(deps.MongoDatabase, groups, errLog, logger)
	r.Mount("/content", contentfeature.Routes(contentHandler))
	r.Get("/denied", contentHandler.Denied)

	// Admin area
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, groups, appCfg.BaseURL, errLog, logger)
	r.Mount("/admin/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(deps.MongoDatabase, groups, workflow, errLog, logger)
	r.Mount("/admin/members", membersfeature.Routes(membersHandler, sessionMgr))

	approvalsHandler := approvalsfeature.NewHandler(deps.MongoDatabase, workflow, errLog, logger)
	r.Mount("/admin/approve", approvalsfeature.Routes(approvalsHandler, sessionMgr))

	r.Mount("/admin/content", contentfeature.AdminRoutes(contentHandler, sessionMgr))

	settingsHandler := settingsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/admin/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	return r, nil
}
