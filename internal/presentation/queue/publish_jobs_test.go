package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	infraqueue "github.com/Builder-Lawyers/publisher/internal/infra/queue"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]types.Message
	deleted  []string
	received int
	inputs   []*sqs.ReceiveMessageInput
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	f.received++
	f.inputs = append(f.inputs, in)
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return &sqs.ReceiveMessageOutput{}, nil
	}
}

func (f *fakeSQS) DeleteMessageBatch(_ context.Context, in *sqs.DeleteMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range in.Entries {
		f.deleted = append(f.deleted, aws.ToString(e.Id))
	}
	return &sqs.DeleteMessageBatchOutput{}, nil
}

type fakeHandler struct {
	mu      sync.Mutex
	results map[string]error
	handled []string
}

func (h *fakeHandler) Handle(_ context.Context, job events.PublishJob) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, job.VersionID)
	return h.results[job.VersionID]
}

func message(t *testing.T, id string, job events.PublishJob) types.Message {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return types.Message{MessageId: aws.String(id), ReceiptHandle: aws.String("rh-" + id), Body: aws.String(string(body))}
}

func testConfig() infraqueue.Config {
	return infraqueue.Config{QueueURL: "http://queue", MaxMessages: 10, WaitTimeSeconds: 1, VisibilityTimeout: 30, Concurrency: 2}
}

func TestPollAcksSuccessAndTerminalFailures(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{{
		message(t, "m1", events.PublishJob{Type: consts.JobPublishSite, SiteID: "s", VersionID: "ok"}),
		message(t, "m2", events.PublishJob{Type: consts.JobPublishSite, SiteID: "s", VersionID: "gone"}),
		message(t, "m3", events.PublishJob{Type: consts.JobPublishSite, SiteID: "s", VersionID: "flaky"}),
		{MessageId: aws.String("m4"), ReceiptHandle: aws.String("rh-m4"), Body: aws.String("{not json")},
	}}}
	handler := &fakeHandler{results: map[string]error{
		"gone":  errs.NotFoundError{Entity: "version", ID: "gone"},
		"flaky": errs.RetryableError{Err: errors.New("timeout")},
	}}
	p := NewPublishJobsPoller(client, testConfig(), handler, time.Second)

	p.poll(context.Background())

	assert.ElementsMatch(t, []string{"ok", "gone", "flaky"}, handler.handled)
	assert.ElementsMatch(t, []string{"m1", "m2", "m4"}, client.deleted)
}

func TestPollWithNothingReceivedDeletesNothing(t *testing.T) {
	client := &fakeSQS{}
	p := NewPublishJobsPoller(client, testConfig(), &fakeHandler{}, time.Second)

	p.poll(context.Background())

	assert.Empty(t, client.deleted)
}

func TestStartStop(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{{
		message(t, "m1", events.PublishJob{Type: consts.JobRollbackSite, SiteID: "s", VersionID: "v1"}),
	}}}
	handler := &fakeHandler{}
	p := NewPublishJobsPoller(client, testConfig(), handler, time.Second)

	go p.Start()
	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.deleted) == 1
	}, 2*time.Second, 10*time.Millisecond)
	p.Stop()

	assert.Equal(t, []string{"v1"}, handler.handled)
}

func TestVisibilityTimeoutCoversJobTimeout(t *testing.T) {
	client := &fakeSQS{}
	p := NewPublishJobsPoller(client, testConfig(), &fakeHandler{}, 5*time.Minute)

	p.poll(context.Background())

	require.Len(t, client.inputs, 1)
	assert.Equal(t, int32(330), client.inputs[0].VisibilityTimeout)

	longer := testConfig()
	longer.VisibilityTimeout = 900
	p = NewPublishJobsPoller(client, longer, &fakeHandler{}, 5*time.Minute)
	p.poll(context.Background())
	assert.Equal(t, int32(900), client.inputs[1].VisibilityTimeout)
}
