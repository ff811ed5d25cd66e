package scheduler

import (
	"context"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
)

const runTimeout = time.Minute

// OrderExpirer cancels online orders left unpaid for longer than olderThan.
type OrderExpirer interface {
	CancelStaleUnpaidOrders(ctx context.Context, olderThan time.Duration) (int64, error)
}

// OrderExpiryScheduler periodically cancels stale unpaid online orders.
type OrderExpiryScheduler struct {
	cron      *cron.Cron
	expirer   OrderExpirer
	spec      string
	olderThan time.Duration
}

func NewOrderExpiryScheduler(expirer OrderExpirer, spec string, olderThan time.Duration) *OrderExpiryScheduler {
	return &OrderExpiryScheduler{
		// a slow run is skipped rather than stacked
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		expirer:   expirer,
		spec:      spec,
		olderThan: olderThan,
	}
}

// Start registers the job and starts the cron runner.
func (s *OrderExpiryScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for order expiry", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Order expiry scheduler started", map[string]interface{}{
		"spec":       s.spec,
		"older_than": s.olderThan.String(),
	})
	return nil
}

// RunOnce performs a single expiry pass.
func (s *OrderExpiryScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	n, err := s.expirer.CancelStaleUnpaidOrders(ctx, s.olderThan)
	if err != nil {
		logger.Error("Scheduled order expiry failed", err)
		return
	}
	logger.Debug("Scheduled order expiry finished", map[string]interface{}{
		"cancelled": n,
	})
}

// Stop waits for a running job to finish.
func (s *OrderExpiryScheduler) Stop() {
	logger.Info("Stopping order expiry scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Order expiry scheduler stopped")
}
