package storage

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

var s3Storage *Storage

func TestMain(m *testing.M) {
	ctx := context.Background()

	ls, err := localstack.Run(ctx,
		"localstack/localstack:3.8",
		testcontainers.WithEnv(map[string]string{"SERVICES": "s3"}),
	)
	if err != nil {
		log.Fatalf("failed to start localstack: %v", err)
	}

	endpoint, err := ls.PortEndpoint(ctx, "4566/tcp", "http")
	if err != nil {
		log.Fatalf("failed to get endpoint: %v", err)
	}

	os.Setenv("AWS_ACCESS_KEY_ID", "test")
	os.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	os.Setenv("AWS_REGION", "us-east-1")
	os.Setenv("AWS_ENDPOINT_URL", endpoint)

	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("failed to load aws config: %v", err)
	}
	s3Storage = NewStorageWithBucket(cfg, "artifacts-test")
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed to create bucket: %v", err)
	}

	exitCode := m.Run()

	if err := ls.Terminate(ctx); err != nil {
		log.Printf("failed to terminate localstack: %s", err)
	}

	os.Exit(exitCode)
}

func TestListFilesEmpty(t *testing.T) {
	files, err := s3Storage.ListFiles(context.Background(), 10, "no-such-site/")
	require.NoError(t, err)
	assert.Empty(t, files, "files found should be empty")
}

func TestPutGetArtifact(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{"slug":"index","title":"Home","blocks":[]}`)

	require.NoError(t, s3Storage.PutArtifact(ctx, "site-a/v1/index.json", body))

	got, err := s3Storage.GetArtifact(ctx, "site-a/v1/index.json")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	files, err := s3Storage.ListFiles(ctx, 10, "site-a/v1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"site-a/v1/index.json"}, files)
}

func TestGetArtifactMissing(t *testing.T) {
	_, err := s3Storage.GetArtifact(context.Background(), "site-a/v1/missing.json")

	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
