package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	infraqueue "github.com/Builder-Lawyers/publisher/internal/infra/queue"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"golang.org/x/sync/errgroup"
)

// ReceiveAPI is the part of the SQS client the poller needs.
type ReceiveAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
}

type JobHandler interface {
	Handle(ctx context.Context, job events.PublishJob) error
}

// PublishJobsPoller long-polls the publish queue and hands each message to
// the job handler. A message is deleted once it succeeded or failed for good;
// anything else stays on the queue and comes back after the visibility timeout.
type PublishJobsPoller struct {
	client     ReceiveAPI
	cfg        infraqueue.Config
	handler    JobHandler
	jobTimeout time.Duration
	stop       chan struct{}
	done       chan struct{}
}

// visibilityMargin is added to the job timeout so a message stays hidden for
// as long as its job may run.
const visibilityMargin = 30 * time.Second

func NewPublishJobsPoller(client ReceiveAPI, cfg infraqueue.Config, handler JobHandler, jobTimeout time.Duration) *PublishJobsPoller {
	if jobTimeout > 0 {
		cfg.VisibilityTimeout = max(cfg.VisibilityTimeout, int32((jobTimeout+visibilityMargin)/time.Second))
	}
	return &PublishJobsPoller{
		client:     client,
		cfg:        cfg,
		handler:    handler,
		jobTimeout: jobTimeout,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (p *PublishJobsPoller) Start() {
	slog.Info("Starting publish jobs poller...", "queue", p.cfg.QueueURL, "concurrency", p.cfg.Concurrency)
	defer close(p.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-p.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	for ctx.Err() == nil {
		p.poll(ctx)
	}
	slog.Info("Publish jobs poller stopped")
}

// Stop ends the receive loop and waits for in-flight jobs to finish.
func (p *PublishJobsPoller) Stop() {
	slog.Info("Stopping publish jobs poller")
	close(p.stop)
	<-p.done
}

func (p *PublishJobsPoller) poll(ctx context.Context) {
	out, err := p.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(p.cfg.QueueURL),
		MaxNumberOfMessages: p.cfg.MaxMessages,
		WaitTimeSeconds:     p.cfg.WaitTimeSeconds,
		VisibilityTimeout:   p.cfg.VisibilityTimeout,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("err receiving from queue", "err", err)
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return
	}
	if len(out.Messages) == 0 {
		return
	}

	// jobs outlive the receive loop so a shutdown does not abort a half-written version
	jobCtx := context.WithoutCancel(ctx)

	var (
		mu   sync.Mutex
		acks []types.DeleteMessageBatchRequestEntry
	)
	g := new(errgroup.Group)
	g.SetLimit(max(p.cfg.Concurrency, 1))
	for _, m := range out.Messages {
		g.Go(func() error {
			if p.handle(jobCtx, m) {
				mu.Lock()
				acks = append(acks, types.DeleteMessageBatchRequestEntry{Id: m.MessageId, ReceiptHandle: m.ReceiptHandle})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(acks) == 0 {
		return
	}
	_, err = p.client.DeleteMessageBatch(jobCtx, &sqs.DeleteMessageBatchInput{
		QueueUrl: aws.String(p.cfg.QueueURL),
		Entries:  acks,
	})
	if err != nil {
		slog.Error("err deleting messages", "count", len(acks), "err", err)
	}
}

// handle reports whether the message should be deleted.
func (p *PublishJobsPoller) handle(ctx context.Context, m types.Message) bool {
	var job events.PublishJob
	if err := json.Unmarshal([]byte(aws.ToString(m.Body)), &job); err != nil {
		slog.Error("dropping malformed message", "id", aws.ToString(m.MessageId), "err", err)
		return true
	}

	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}

	err := p.handler.Handle(ctx, job)
	switch {
	case err == nil:
		return true
	case errs.IsTerminal(err):
		slog.Error("job failed permanently", append(job.LogArgs(), "err", err)...)
		return true
	default:
		slog.Warn("job failed, leaving for redelivery", append(job.LogArgs(), "err", err)...)
		return false
	}
}
