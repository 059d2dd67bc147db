package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

const (
	cartRetentionJobName  = "cart-retention"
	defaultRetentionBatch = 500
	maxRetentionBatches   = 100
)

// rowsRecorder implementations must tolerate a nil receiver.
type rowsRecorder interface {
	RowsDeleted(job string, n int64)
}

type CartRetentionJobParams struct {
	Logger  *logger.Logger
	Purger  cart.ExpiredStatePurger
	Metrics rowsRecorder
	// Grace keeps rows this long past expiry before deleting them.
	Grace time.Duration
	Batch int
}

// NewCartRetentionJob deletes expired cart_states rows in batches.
func NewCartRetentionJob(params CartRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("cart state purger required")
	}
	batch := params.Batch
	if batch <= 0 {
		batch = defaultRetentionBatch
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = (*metrics.Jobs)(nil)
	}
	return &cartRetentionJob{
		logg:    params.Logger,
		purger:  params.Purger,
		metrics: recorder,
		grace:   params.Grace,
		batch:   batch,
		now:     time.Now,
	}, nil
}

type cartRetentionJob struct {
	logg    *logger.Logger
	purger  cart.ExpiredStatePurger
	metrics rowsRecorder
	grace   time.Duration
	batch   int
	now     func() time.Time
}

func (j *cartRetentionJob) Name() string { return cartRetentionJobName }

func (j *cartRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.grace)
	var total int64
	for i := 0; i < maxRetentionBatches; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		deleted, err := j.purger.PurgeExpired(ctx, cutoff, j.batch)
		if err != nil {
			return fmt.Errorf("cart retention: %w", err)
		}
		total += deleted
		if deleted < int64(j.batch) {
			break
		}
	}
	j.metrics.RowsDeleted(cartRetentionJobName, total)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": total,
	}), "cron.cart_retention_complete")
	return nil
}
