// Package jobs runs the clinic's scheduled housekeeping. A single daily
// run prunes availability exceptions that concluded over a year ago and
// logs the triage queue depth for monitoring.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type ExceptionPruner interface {
	DeleteExceptionsConcludedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type QueueInspector interface {
	QueueDepth(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron       *cron.Cron
	exceptions ExceptionPruner
	queue      QueueInspector
	log        zerolog.Logger
}

func NewScheduler(exceptions ExceptionPruner, queue QueueInspector, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		exceptions: exceptions,
		queue:      queue,
		log:        log.With().Str("component", "jobs").Logger(),
	}
}

// Start registers the daily run at 00:05 and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", s.runDaily); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Msg("daily housekeeping scheduled at 00:05")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.pruneExceptions(ctx)
	s.reportQueueDepth(ctx)
}

func (s *Scheduler) pruneExceptions(ctx context.Context) {
	cutoff := time.Now().AddDate(-1, 0, 0)
	n, err := s.exceptions.DeleteExceptionsConcludedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("pruning concluded availability exceptions failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("pruned concluded availability exceptions")
	}
}

func (s *Scheduler) reportQueueDepth(ctx context.Context) {
	depth, err := s.queue.QueueDepth(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reading queue depth failed")
		return
	}
	s.log.Info().Int("depth", depth).Msg("triage queue depth")
}
