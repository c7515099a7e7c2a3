package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/infra/metrics"
)

type Processors struct {
	PublishSite  *PublishSite
	RollbackSite *RollbackSite
}

// Handle runs the processor for the job's type. Errors for which
// errs.IsTerminal holds must be acknowledged; everything else is retried.
func (p *Processors) Handle(ctx context.Context, job events.PublishJob) error {
	start := time.Now()
	var err error
	switch job.Type {
	case consts.JobPublishSite:
		err = p.PublishSite.Handle(ctx, job)
	case consts.JobRollbackSite:
		err = p.RollbackSite.Handle(ctx, job)
	default:
		err = errs.InvalidJobError{Err: fmt.Errorf("unknown job type %q", job.Type)}
	}

	result := "ok"
	switch {
	case err == nil:
	case errs.IsTerminal(err):
		result = "terminal"
	default:
		result = "retry"
	}
	metrics.JobsTotal.WithLabelValues(string(job.Type), result).Inc()
	metrics.JobDuration.WithLabelValues(string(job.Type)).Observe(time.Since(start).Seconds())
	return err
}
