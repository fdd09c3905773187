package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/Roger0222/dandelion/internal/backend"
	"github.com/Roger0222/dandelion/internal/backend/supabase"
	"github.com/Roger0222/dandelion/internal/config"
	"github.com/Roger0222/dandelion/internal/handler"
	"github.com/Roger0222/dandelion/internal/jwt"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/markdown"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/middleware/ratelimiter"
	"github.com/Roger0222/dandelion/internal/registration"
	"github.com/Roger0222/dandelion/internal/routes"
	"github.com/Roger0222/dandelion/internal/service"
	"github.com/Roger0222/dandelion/internal/storage/pg"
	"github.com/Roger0222/dandelion/internal/validation"
	"github.com/Roger0222/dandelion/web"
)

const (
	maxRedirectHops      = 2
	draftSweepInterval   = time.Minute
	rateLimiterIdleAfter = time.Hour
)

// Dependencies holds everything the router needs.
type Dependencies struct {
	Public         config.Public
	Routes         *routes.Table
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	AuthLimiter    *ratelimiter.KeyedRateLimiter
	Drafts         *registration.DraftStore
	Storage        *pg.Storage // nil unless profile_store is postgres
	CancelFunc     context.CancelFunc
}

// SetupDependencies wires the app from cfg. Background work started here runs
// until Close is called.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	table := routes.New(cfg.Public.BasePath)
	if err := table.Check(maxRedirectHops); err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	client := supabase.New(cfg.Public.Backend.URL, cfg.Private.BackendKey, cfg.Public.Backend.Timeout)

	var (
		rows  backend.RowInserter = client
		store *pg.Storage
	)
	if cfg.Public.ProfileStore == config.ProfileStorePostgres {
		var err error
		store, err = pg.New(cfg.Private.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.Migrate(context.Background()); err != nil {
			cleanup(store)
			return nil, fmt.Errorf("failed to migrate storage: %w", err)
		}
		rows = store
	}

	var tabs []string
	for _, s := range table.Sections() {
		tabs = append(tabs, s.Tab)
	}
	sections, err := markdown.New().RenderSections(web.FS(), web.ContentDir, tabs)
	if err != nil {
		cleanup(store)
		return nil, fmt.Errorf("failed to render sections: %w", err)
	}

	templates, err := handler.ParseTemplates(web.FS(), web.TemplatesDir)
	if err != nil {
		cleanup(store)
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	authSvc := service.NewAuth(client,
		service.AuthPaths{App: table.App(), Login: table.Login()},
		service.Timing{Toast: cfg.Public.ToastDuration, Delay: cfg.Public.NavigationDelay},
	)
	regSvc := service.NewRegistration(client, rows,
		validation.NewRegistration(cfg.Public.AllowedEmailSuffix),
		cfg.Public.Backend.UsersTable,
		cfg.Public.BcryptCost,
	)

	ctx, cancel := context.WithCancel(context.Background())
	drafts := registration.NewDraftStore(cfg.Public.DraftTTL)
	drafts.StartJanitor(ctx, draftSweepInterval)

	h := handler.New(templates, cfg.Public, table, sections, authSvc, regSvc, drafts)

	if cfg.JwtSecret() == "" {
		logger.Log.Warn("jwt_secret is empty: session tokens are checked for expiry only")
	}
	authMw := middleware.NewAuth(jwt.New(cfg.JwtSecret()), h.Cookies, table.Login())

	limiter := ratelimiter.New(cfg.Public.AuthRateLimit.Rate, float64(cfg.Public.AuthRateLimit.Burst), rateLimiterIdleAfter)

	return &Dependencies{
		Public:         cfg.Public,
		Routes:         table,
		Handler:        h,
		AuthMiddleware: authMw,
		AuthLimiter:    limiter,
		Drafts:         drafts,
		Storage:        store,
		CancelFunc:     cancel,
	}, nil
}

// Close stops background work and releases the database pool.
func (d *Dependencies) Close() {
	d.CancelFunc()
	d.AuthLimiter.Stop()
	cleanup(d.Storage)
}

func cleanup(store *pg.Storage) {
	if store == nil {
		return
	}
	if err := store.Cleanup(); err != nil {
		logger.Log.Error("failed to close storage", "error", err)
	}
}
