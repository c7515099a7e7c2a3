package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/infra/cache"
	"github.com/Builder-Lawyers/publisher/internal/infra/logger"
	"github.com/Builder-Lawyers/publisher/internal/infra/metrics"
	"github.com/Builder-Lawyers/publisher/pkg/db"
	"github.com/Builder-Lawyers/publisher/pkg/env"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// Init starts the service named by the first argument or SERVICE:
// api, worker or runtime.
func Init() {
	// .env is optional outside local development
	_ = godotenv.Load()

	service := env.GetEnv("SERVICE", "api")
	if len(os.Args) > 1 {
		service = os.Args[1]
	}
	logger.Setup(service)

	metricsServer := metrics.NewServer(env.GetEnv("METRICS_ADDR", ":9090"))
	metricsServer.Start()

	var stop func(ctx context.Context)
	switch service {
	case "api":
		stop = runAPI()
	case "worker":
		stop = runWorker()
	case "runtime":
		stop = runRuntime()
	default:
		log.Panicf("unknown service %q, expected api, worker or runtime", service)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	slog.Info("Gracefully shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stop(ctx)
	if err := metricsServer.Shutdown(ctx); err != nil {
		slog.Warn("metrics server shutdown", "err", err)
	}
	slog.Info("Shutdown complete")
}

func newPool(ctx context.Context) *pgxpool.Pool {
	dbConfig := db.NewConfig()
	pool, err := pgxpool.New(ctx, dbConfig.GetDSN())
	if err != nil {
		log.Panicf("failed to create pool: %v", err)
	}
	if err = pool.Ping(ctx); err != nil {
		log.Panicf("failed to connect to db: %v", err)
	}
	return pool
}

func newRedis(ctx context.Context) *redis.Client {
	client, err := cache.NewClient(ctx, cache.NewConfig())
	if err != nil {
		log.Panicf("failed to connect to redis: %v", err)
	}
	return client
}

func newAWSConfig(ctx context.Context) aws.Config {
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Panicf("can't load aws config: %v", err)
	}
	return cfg
}
