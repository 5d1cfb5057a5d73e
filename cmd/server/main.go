package main

import (
	"context"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/cache"
	"github.com/kindlingapp/kindling/internal/config"
	"github.com/kindlingapp/kindling/internal/db"
	"github.com/kindlingapp/kindling/internal/logger"
	"github.com/kindlingapp/kindling/internal/server"
	"github.com/kindlingapp/kindling/internal/service/billing"
	"github.com/kindlingapp/kindling/internal/service/boost"
	"github.com/kindlingapp/kindling/internal/service/compliment"
	"github.com/kindlingapp/kindling/internal/service/relationship"
	"github.com/kindlingapp/kindling/internal/service/swipe"
	"github.com/kindlingapp/kindling/internal/service/views"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, cfg)

	protected := []server.Registrar{
		swipe.NewRegistrar(appCtx),
		relationship.NewRegistrar(appCtx),
		views.NewRegistrar(appCtx),
		boost.NewRegistrar(appCtx),
		compliment.NewRegistrar(appCtx),
	}
	public := []server.Registrar{
		billing.NewRegistrar(appCtx),
	}

	router := server.NewRouter(cfg, protected, public)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, router); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
