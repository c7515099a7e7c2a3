package cdn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
)

// InvalidationAPI is the part of the CloudFront client the purger needs.
type InvalidationAPI interface {
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

type CloudFrontPurger struct {
	client InvalidationAPI
}

var _ interfaces.CDNPurger = (*CloudFrontPurger)(nil)

func NewCloudFrontPurger(cfg aws.Config) *CloudFrontPurger {
	return &CloudFrontPurger{client: cloudfront.NewFromConfig(cfg)}
}

func NewCloudFrontPurgerWithClient(client InvalidationAPI) *CloudFrontPurger {
	return &CloudFrontPurger{client: client}
}

// Purge invalidates every path of the distribution. CloudFront treats a
// repeated reference as the same request.
func (c *CloudFrontPurger) Purge(ctx context.Context, distributionID, reference string) error {
	out, err := c.client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(reference),
			Paths: &types.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{"/*"},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate distribution %s: %w", distributionID, err)
	}
	if out.Invalidation != nil {
		slog.Info("cdn invalidation created", "distribution", distributionID, "invalidation", aws.ToString(out.Invalidation.Id))
	}
	return nil
}
