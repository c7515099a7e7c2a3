package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sqs.SendMessageOutput{}, f.err
}

func TestSenderWritesJobBody(t *testing.T) {
	client := &fakeSQS{}
	sender := NewSender(client, "https://sqs.local/publish")

	err := sender.Send(context.Background(), events.PublishJob{
		Type: consts.JobRollbackSite, VersionID: "v1", SiteID: "s1", TenantID: "t1", UserID: "u1",
	})
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	assert.Equal(t, "https://sqs.local/publish", aws.ToString(client.inputs[0].QueueUrl))
	assert.JSONEq(t, `{"type":"rollback_site","versionId":"v1","siteId":"s1","tenantId":"t1","userId":"u1"}`,
		aws.ToString(client.inputs[0].MessageBody))
}

func TestSenderWrapsErrors(t *testing.T) {
	sender := NewSender(&fakeSQS{err: errors.New("throttled")}, "q")

	err := sender.Send(context.Background(), events.PublishJob{Type: consts.JobPublishSite, SiteID: "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
