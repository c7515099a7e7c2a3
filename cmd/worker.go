package cmd

import (
	"context"
	"log"

	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/application/processors"
	"github.com/Builder-Lawyers/publisher/internal/infra/cache"
	"github.com/Builder-Lawyers/publisher/internal/infra/cdn"
	"github.com/Builder-Lawyers/publisher/internal/infra/config"
	"github.com/Builder-Lawyers/publisher/internal/infra/db/repo"
	infraQueue "github.com/Builder-Lawyers/publisher/internal/infra/queue"
	"github.com/Builder-Lawyers/publisher/internal/infra/storage"
	"github.com/Builder-Lawyers/publisher/internal/presentation/queue"
	"github.com/Builder-Lawyers/publisher/pkg/env"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func runWorker() func(ctx context.Context) {
	ctx := context.Background()
	publishConfig := config.NewPublishConfig()
	queueConfig := infraQueue.NewConfig()

	pool := newPool(ctx)
	redisClient := newRedis(ctx)
	awsCfg := newAWSConfig(ctx)

	artifacts := storage.NewStorage(awsCfg)
	if env.GetBool("S3_ENSURE_BUCKET", false) {
		if err := artifacts.EnsureBucket(ctx); err != nil {
			log.Panicf("failed to prepare artifact bucket: %v", err)
		}
	}

	var purger interfaces.CDNPurger
	if publishConfig.CDNEnabled {
		purger = cdn.NewCloudFrontPurger(awsCfg)
	}

	content := repo.NewContentRepo(pool)
	pointers := cache.NewPointerStore(redisClient)
	handler := &processors.Processors{
		PublishSite:  processors.NewPublishSite(content, artifacts, pointers, purger),
		RollbackSite: processors.NewRollbackSite(publishConfig, content, pointers, purger),
	}

	poller := queue.NewPublishJobsPoller(sqs.NewFromConfig(awsCfg), queueConfig, handler, publishConfig.JobTimeout)
	go poller.Start()

	return func(ctx context.Context) {
		poller.Stop()
		_ = redisClient.Close()
		pool.Close()
	}
}
