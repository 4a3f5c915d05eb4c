package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

// NewWorkers returns the client's workers: the periodic sync job.
func NewWorkers(services *service.ClientServices, cfg config.ClientWorkers) *Workers {
	return &Workers{
		workers: []Worker{newSyncWorker(services.SyncJob, cfg.SyncInterval)},
	}
}

// Run starts every worker and blocks until all of them stop. The first
// failure cancels the others.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}
	return g.Wait()
}

// syncWorker drives a ClientSyncJob.
type syncWorker struct {
	job      service.ClientSyncJob
	interval time.Duration
}

func newSyncWorker(job service.ClientSyncJob, interval time.Duration) *syncWorker {
	return &syncWorker{job: job, interval: interval}
}

func (s *syncWorker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info().Dur("interval", s.interval).Msg("sync worker started")

	s.job.Start(ctx, s.interval)
	<-ctx.Done()
	s.job.Stop()

	log.Info().Msg("sync worker stopped")
	return nil
}
