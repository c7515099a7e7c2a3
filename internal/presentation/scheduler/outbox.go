package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/consts"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/infra/db"
	"github.com/Builder-Lawyers/publisher/internal/infra/metrics"
	dbs "github.com/Builder-Lawyers/publisher/pkg/db"
	"github.com/Builder-Lawyers/publisher/pkg/env"
)

// OutboxPoller forwards publish jobs recorded in the outbox table to the
// job queue. Rows are claimed with status Processing so concurrent API
// replicas never send the same event twice in one pass. A claim is a lease:
// a row left in Processing longer than the lease is claimed again.
type OutboxPoller struct {
	sender     interfaces.JobSender
	uowFactory *dbs.UOWFactory
	cfg        *OutboxConfig
	stop       chan struct{}
	done       chan struct{}
}

type OutboxConfig struct {
	limit    int
	interval time.Duration
	lease    time.Duration
}

func NewOutboxConfig() *OutboxConfig {
	return &OutboxConfig{
		limit:    env.GetInt("SCHEDULER_LIMIT", 20),
		interval: env.GetDuration("SCHEDULER_INTERVAL", 2*time.Second),
		lease:    env.GetDuration("SCHEDULER_CLAIM_LEASE", time.Minute),
	}
}

func NewOutboxPoller(sender interfaces.JobSender, uowFactory *dbs.UOWFactory, cfg *OutboxConfig) *OutboxPoller {
	return &OutboxPoller{sender: sender, uowFactory: uowFactory, cfg: cfg, stop: make(chan struct{}), done: make(chan struct{})}
}

func (o *OutboxPoller) Start() {
	slog.Info("Starting outbox poller...", "interval", o.cfg.interval, "limit", o.cfg.limit)
	defer close(o.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := time.NewTimer(o.cfg.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			o.pollTable(ctx)
			// wait after poll finishes
			t.Reset(o.cfg.interval)
		case <-o.stop:
			slog.Info("Outbox poller stopped")
			return
		}
	}
}

func (o *OutboxPoller) Stop() {
	slog.Info("Stopping outbox poller")
	close(o.stop)
	<-o.done
}

func (o *OutboxPoller) pollTable(ctx context.Context) {
	claimed, err := o.claim(ctx)
	if err != nil {
		slog.Error("error claiming outbox events", "err", err)
		return
	}
	if len(claimed) == 0 {
		slog.Debug("no events to process")
		return
	}

	for _, event := range claimed {
		if err := o.forward(ctx, event); err != nil {
			slog.Error("error forwarding outbox event", "id", event.ID, "err", err)
		}
	}
	slog.Debug("Finished outbox pass", "events", len(claimed))
}

func (o *OutboxPoller) claim(ctx context.Context) (_ []db.Outbox, err error) {
	uow := o.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	now := time.Now()
	query := `SELECT id, event, status, payload, created_at FROM publisher.outbox
		WHERE status = $1 OR (status = $2 AND claimed_at < $3)
		ORDER BY created_at LIMIT $4 FOR NO KEY UPDATE SKIP LOCKED`
	rows, err := tx.Query(ctx, query, int(consts.NotProcessed), int(consts.Processing), now.Add(-o.cfg.lease), o.cfg.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []db.Outbox
	var ids []int64
	for rows.Next() {
		var event db.Outbox
		if err = rows.Scan(&event.ID, &event.Event, &event.Status, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		ids = append(ids, int64(event.ID))
		claimed = append(claimed, event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(claimed) == 0 {
		return nil, nil
	}

	_, err = tx.Exec(ctx, "UPDATE publisher.outbox SET status = $1, claimed_at = $2 WHERE id = ANY($3)",
		int(consts.Processing), now, ids)
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (o *OutboxPoller) forward(ctx context.Context, outbox db.Outbox) error {
	status := consts.Processed

	job, err := db.MapOutboxModelToPublishJob(outbox)
	if err != nil {
		status = consts.InError
	} else if err = o.sender.Send(ctx, job); err != nil {
		// back to the pool for the next pass
		status = consts.NotProcessed
	}
	metrics.OutboxForwarded.WithLabelValues(statusLabel(status)).Inc()

	_, errUpdate := o.uowFactory.Pool.Exec(ctx, "UPDATE publisher.outbox SET status = $1 WHERE id = $2", int(status), outbox.ID)
	if err != nil || errUpdate != nil {
		return errors.Join(err, errUpdate)
	}

	slog.Info("forwarded event", append(job.LogArgs(), "id", outbox.ID)...)
	return nil
}

func statusLabel(status consts.OutboxStatus) string {
	switch status {
	case consts.Processed:
		return "processed"
	case consts.InError:
		return "in_error"
	default:
		return "retry"
	}
}
