package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ddfinv/backoffice/internal/api"
	"github.com/ddfinv/backoffice/internal/core/service"
	mongodb "github.com/ddfinv/backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/ddfinv/backoffice/internal/infrastructure/db/redis"
	"github.com/ddfinv/backoffice/internal/infrastructure/security"
	"github.com/ddfinv/backoffice/internal/pkg/config"
	"github.com/ddfinv/backoffice/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "backoffice",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting back office API")

	ctx := context.Background()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories and collaborators ---
	accountRepo := mongodb.NewAccountRepository(db)
	permissionRepo := mongodb.NewPermissionRepository(db)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	upgradeRepo := mongodb.NewUpgradeRequestRepository(db)
	txRunner := mongodb.NewTxRunner(mongoClient)
	tokenStore := redisdb.NewTokenStore(rdb)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// The catalog must exist before any account can be created: base
	// permission sets are materialized from it.
	catalog, err := service.SeedCatalog(ctx, permissionRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("permission catalog")
	}

	// --- Services ---
	accountService := service.NewAccountService(accountRepo, employeeRepo, clientRepo, catalog, hasher, txRunner, log)
	authService := service.NewAuthService(accountRepo, accountService, tokenStore, hasher, cfg.JWTSecret, cfg.TokenTTL, log)
	employeeService := service.NewEmployeeService(employeeRepo, accountRepo, accountService, txRunner, log)
	clientService := service.NewClientService(clientRepo, employeeRepo, accountRepo, accountService, txRunner, cfg.FallbackEmployeeID, log)
	upgradeService := service.NewUpgradeService(upgradeRepo, accountRepo, clientService, txRunner, log)
	guard := service.NewGuard(service.NewEvaluator(), log)

	if err := service.EnsureBootstrapAdmin(ctx, accountService, accountRepo, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		DB:          db,
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		AccountRepo: accountRepo,
		Tokens:      tokenStore,
		Auth:        authService,
		Accounts:    accountService,
		Employees:   employeeService,
		Clients:     clientService,
		Upgrades:    upgradeService,
		Guard:       guard,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, draining server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("server stopped")
}
