package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/pkg/env"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type Config struct {
	QueueURL          string
	VisibilityTimeout int32
	WaitTimeSeconds   int32
	MaxMessages       int32
	Concurrency       int
}

func NewConfig() Config {
	return Config{
		QueueURL:          os.Getenv("PUBLISH_SQS_URL"),
		VisibilityTimeout: int32(env.GetInt("PUBLISH_SQS_VISIBILITY_TIMEOUT", 360)),
		WaitTimeSeconds:   int32(env.GetInt("PUBLISH_SQS_WAIT_SECONDS", 20)),
		MaxMessages:       int32(env.GetInt("PUBLISH_SQS_MAX_MESSAGES", 10)),
		Concurrency:       env.GetInt("PUBLISH_WORKER_CONCURRENCY", 4),
	}
}

// SendAPI is the part of the SQS client the sender needs.
type SendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type Sender struct {
	client   SendAPI
	queueURL string
}

var _ interfaces.JobSender = (*Sender)(nil)

func NewSender(client SendAPI, queueURL string) *Sender {
	return &Sender{client: client, queueURL: queueURL}
}

func (s *Sender) Send(ctx context.Context, job events.PublishJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("err marshalling job, %w", err)
	}
	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("err sending %s job for site %s, %w", job.Type, job.SiteID, err)
	}
	return nil
}
