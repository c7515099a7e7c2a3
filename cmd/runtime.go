package cmd

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/query"
	"github.com/Builder-Lawyers/publisher/internal/application/render"
	"github.com/Builder-Lawyers/publisher/internal/infra/cache"
	"github.com/Builder-Lawyers/publisher/internal/infra/config"
	"github.com/Builder-Lawyers/publisher/internal/infra/db/repo"
	"github.com/Builder-Lawyers/publisher/internal/infra/storage"
	"github.com/Builder-Lawyers/publisher/internal/presentation/rest"
	"github.com/gofiber/fiber/v2"
)

func runRuntime() func(ctx context.Context) {
	ctx := context.Background()
	runtimeConfig := config.NewRuntimeConfig()

	pool := newPool(ctx)
	redisClient := newRedis(ctx)
	artifacts := storage.NewStorage(newAWSConfig(ctx))

	resolver := query.NewResolveDomain(cache.NewDomainCache(redisClient), repo.NewDomainRepo(pool), runtimeConfig.DomainTTL)
	pages := query.NewGetPage(resolver, cache.NewPointerStore(redisClient), artifacts, render.NewRenderer(), runtimeConfig.FetchTimeout)

	app := fiber.New(fiber.Config{
		IdleTimeout: 5 * time.Second,
	})
	rest.RegisterRuntimeHandlers(app, rest.NewRuntimeServer(pages, runtimeConfig.Environment))

	go func() {
		if err := app.Listen(runtimeConfig.Addr); err != nil {
			log.Panic(err)
		}
	}()

	return func(ctx context.Context) {
		if err := app.ShutdownWithContext(ctx); err != nil {
			slog.Warn("runtime shutdown", "err", err)
		}
		_ = redisClient.Close()
		pool.Close()
	}
}
