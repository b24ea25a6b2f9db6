package main

import (
	"log"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/stirlingqr/leadgate/internal/auth"
	"github.com/stirlingqr/leadgate/internal/logger"
	"github.com/stirlingqr/leadgate/internal/repositories"
	"github.com/stirlingqr/leadgate/internal/services"
	"github.com/stirlingqr/leadgate/internal/session"
	"github.com/stirlingqr/leadgate/internal/utils"
)

// application holds the dependencies shared by all HTTP handlers
type application struct {
	config        *utils.Config
	logger        *logger.Logger
	svc           services.Service
	verifier      *auth.Verifier
	sessions      *session.Store
	templateCache templateCache
	content       pageContent
}

func main() {
	// Load configuration
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The logo and guide must exist before any view renders
	if err := cfg.ValidateAssets(); err != nil {
		log.Fatalf("startup validation failed: %v", err)
	}

	// Initialize repository and service
	repo := repositories.NewCSVRepository(cfg.Leads.File)
	svc := services.NewService(repo)

	// Admin credential verification, supplied externally at startup
	verifier, err := auth.NewVerifier(cfg.Admin.Username, cfg.Admin.PasswordHash, cfg.Admin.Password)
	if err != nil {
		log.Fatalf("failed to configure admin credentials: %v", err)
	}

	cache, err := newTemplateCache()
	if err != nil {
		log.Fatalf("failed to build template cache: %v", err)
	}

	content, err := loadPageContent()
	if err != nil {
		log.Fatalf("failed to render page content: %v", err)
	}

	app := &application{
		config:        cfg,
		logger:        logger.NewStdLogger(),
		svc:           svc,
		verifier:      verifier,
		sessions:      session.NewStore(),
		templateCache: cache,
		content:       content,
	}

	handler, err := app.routes()
	if err != nil {
		log.Fatalf("failed to build routes: %v", err)
	}

	// Every POST form carries a token; reject cross-site submissions
	protect := csrf.Protect(cfg.CSRFKey,
		csrf.Secure(!cfg.IsDevelopment()),
		csrf.Path("/"),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: protect(handler),
	}

	app.logger.Infof("Starting server on %s (env=%s, leads=%s)", srv.Addr, cfg.App.Env, cfg.Leads.File)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
