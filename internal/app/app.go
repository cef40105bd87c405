package app

import (
	"context"
	"net/http"

	"pantry-pilot/internal/ai"
	"pantry-pilot/internal/config"
	"pantry-pilot/internal/db"
	householddomain "pantry-pilot/internal/domain/household"
	pantrydomain "pantry-pilot/internal/domain/pantry"
	recipedomain "pantry-pilot/internal/domain/recipe"
	shoppingdomain "pantry-pilot/internal/domain/shopping"
	userdomain "pantry-pilot/internal/domain/user"
	"pantry-pilot/internal/repository/inmemory"
	householdrepo "pantry-pilot/internal/repository/postgres/household"
	pantryrepo "pantry-pilot/internal/repository/postgres/pantry"
	reciperepo "pantry-pilot/internal/repository/postgres/recipe"
	shoppingrepo "pantry-pilot/internal/repository/postgres/shopping"
	userrepo "pantry-pilot/internal/repository/postgres/user"
	"pantry-pilot/internal/transport/httpserver"
	"pantry-pilot/internal/transport/httpserver/handler"
	"pantry-pilot/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

// provisioner creates the pantry and shopping list for a fresh household.
// Its fields are filled in after the services exist, since the household
// service and the per-household services depend on each other.
type provisioner struct {
	pantry   *pantrydomain.Service
	shopping *shoppingdomain.Service
}

func (p *provisioner) Provision(ctx context.Context, householdID string) error {
	if _, err := p.pantry.EnsureForHousehold(ctx, householdID); err != nil {
		return err
	}
	_, err := p.shopping.EnsureForHousehold(ctx, householdID)
	return err
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	var cache householddomain.Cache
	if cfg.HouseholdCache.Enabled {
		lruCache, err := inmemory.NewHouseholdCache(cfg.HouseholdCache.Size)
		if err != nil {
			return nil, err
		}
		cache = lruCache
	}

	prov := &provisioner{}
	householdSvc := householddomain.NewService(
		householdrepo.NewPostgres(dbConn),
		prov,
		cache,
		cfg.HouseholdCache.TTL,
		cfg.Invitations.TTL,
	)
	pantrySvc := pantrydomain.NewService(pantryrepo.NewPostgres(dbConn), householdSvc)
	shoppingSvc := shoppingdomain.NewService(shoppingrepo.NewPostgres(dbConn), householdSvc, pantrySvc)
	prov.pantry = pantrySvc
	prov.shopping = shoppingSvc

	var generator recipedomain.Generator
	if cfg.Gemini.APIKey != "" {
		log.Info("app: initializing recipe generator", "model", cfg.Gemini.Model)
		gen, err := ai.NewRecipeGenerator(context.Background(), cfg.Gemini, log)
		if err != nil {
			return nil, err
		}
		generator = gen
	} else {
		log.Warn("app: GEMINI_API_KEY not set, recipe generation disabled")
	}
	recipeSvc := recipedomain.NewService(reciperepo.NewPostgres(dbConn), householdSvc, generator)

	userSvc := userdomain.NewService(userrepo.NewPostgres(dbConn))

	log.Info("app: initializing router")
	handlers := handler.New(householdSvc, pantrySvc, shoppingSvc, recipeSvc, log)
	router := httpserver.NewRouter(cfg, handlers, userSvc, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
