// Package scheduler drives the periodic batches that move events through
// their lifecycle, simulate due matches and tick bootcamps.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"arena-league/internal/constants"
	"arena-league/internal/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Job is one batch run on a fixed interval.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context, now time.Time) (service.BatchReport, error)
}

type Scheduler struct {
	cron   gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

func New(matches *service.MatchService, events *service.EventService, bootcamps *service.BootcampService, logger zerolog.Logger) (*Scheduler, error) {
	return newScheduler([]Job{
		{Name: "event-start", Every: constants.EventStartInterval, Run: events.StartDue},
		{Name: "event-finish", Every: constants.EventFinishInterval, Run: events.FinishDue},
		{Name: "match-simulation", Every: constants.MatchSimulationInterval, Run: matches.SimulateDue},
		{Name: "bootcamp-tick", Every: constants.BootcampTickInterval, Run: bootcamps.ProcessTicks},
	}, logger)
}

func newScheduler(jobs []Job, logger zerolog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: cron, ctx: ctx, cancel: cancel, logger: logger}

	for _, job := range jobs {
		_, err := cron.NewJob(
			gocron.DurationJob(job.Every),
			gocron.NewTask(s.run, job),
			gocron.WithName(job.Name),
			gocron.WithTags("batch"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to register job %s: %w", job.Name, err)
		}
	}
	return s, nil
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, constants.JobTimeout)
	defer cancel()

	start := time.Now()
	report, err := job.Run(ctx, start.UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("job", job.Name).Msg("job failed")
		return
	}

	ev := s.logger.Debug()
	if report.Failed > 0 {
		ev = s.logger.Warn()
	}
	ev.Str("job", job.Name).
		Int("due", report.Due).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Dur("duration", time.Since(start)).
		Msg("job finished")
}

func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.cron.Jobs())).Msg("scheduler starting")
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() error {
	s.cancel()
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info().Msg("scheduler stopped")
	return nil
}
