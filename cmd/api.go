package cmd

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application"
	"github.com/Builder-Lawyers/publisher/internal/application/commands"
	"github.com/Builder-Lawyers/publisher/internal/application/query"
	"github.com/Builder-Lawyers/publisher/internal/infra/auth"
	"github.com/Builder-Lawyers/publisher/internal/infra/config"
	dbSchema "github.com/Builder-Lawyers/publisher/internal/infra/db"
	"github.com/Builder-Lawyers/publisher/internal/infra/queue"
	"github.com/Builder-Lawyers/publisher/internal/presentation/rest"
	"github.com/Builder-Lawyers/publisher/internal/presentation/scheduler"
	"github.com/Builder-Lawyers/publisher/pkg/db"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func runAPI() func(ctx context.Context) {
	ctx := context.Background()
	apiConfig := config.NewAPIConfig()
	queueConfig := queue.NewConfig()

	pool := newPool(ctx)
	if apiConfig.Migrate {
		if _, err := pool.Exec(ctx, dbSchema.Schema); err != nil {
			log.Panicf("failed to apply schema: %v", err)
		}
		slog.Info("schema applied")
	}
	uowFactory := db.NewUoWFactory(pool)

	sender := queue.NewSender(sqs.NewFromConfig(newAWSConfig(ctx)), queueConfig.QueueURL)

	handlers := &application.Collection{
		RequestPublish:  commands.NewRequestPublish(uowFactory),
		RequestRollback: commands.NewRequestRollback(uowFactory),
		ListVersions:    query.NewListVersions(uowFactory),
	}
	handler := rest.NewServer(handlers, auth.NewVerifier(apiConfig.JWTSecret))
	app := fiber.New(fiber.Config{
		IdleTimeout: 5 * time.Second,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     apiConfig.CORSOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	rest.RegisterHandlers(app, handler)

	outboxPoller := scheduler.NewOutboxPoller(sender, uowFactory, scheduler.NewOutboxConfig())
	go outboxPoller.Start()

	go func() {
		if err := app.Listen(apiConfig.Addr); err != nil {
			log.Panic(err)
		}
	}()

	return func(ctx context.Context) {
		if err := app.ShutdownWithContext(ctx); err != nil {
			slog.Warn("api shutdown", "err", err)
		}
		outboxPoller.Stop()
		pool.Close()
	}
}
