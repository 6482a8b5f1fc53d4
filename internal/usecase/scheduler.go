package usecase

import (
	"context"
	"time"

	"github.com/Smartoire/Contentoire/internal/ports"
)

// Scheduler wires the cron driver with recurring ingestion runs.
type Scheduler struct {
	driver   ports.Scheduler
	ingestor *Ingestor
	family   Family
}

// NewScheduler returns a helper to start/stop recurring runs for one family.
func NewScheduler(driver ports.Scheduler, ingestor *Ingestor, family Family) *Scheduler {
	return &Scheduler{driver: driver, ingestor: ingestor, family: family}
}

// Start registers the ingestion job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.ingestor == nil {
		return nil
	}

	job := func(time.Time) {
		_, _ = s.ingestor.Run(ctx, s.family)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
