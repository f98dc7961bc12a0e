package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/platform/config"
)

const (
	JobReviewReminders = "review-reminders"
	JobPIPCheckIns     = "pip-checkins"
	JobArchive         = "archive"
)

var ErrUnknownJob = errors.New("unknown job")

// Sweeper is the part of the performance service the scheduled jobs drive.
type Sweeper interface {
	SendReviewReminders(ctx context.Context) (performance.SweepResult, error)
	SendPIPCheckInReminders(ctx context.Context) (performance.SweepResult, error)
	ArchiveReviews(ctx context.Context, retention time.Duration) (performance.SweepResult, error)
}

type Service struct {
	sweeper  Sweeper
	recorder Recorder
	cfg      config.Config
	logger   *slog.Logger
	queue    chan job
	now      func() time.Time
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(sweeper Sweeper, recorder Recorder, cfg config.Config, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = NewMemoryRecorder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sweeper:  sweeper,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
		queue:    make(chan job, 16),
		now:      time.Now,
	}
}

// Names lists the jobs RunNow accepts.
func Names() []string {
	return []string{JobReviewReminders, JobPIPCheckIns, JobArchive}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	go s.schedule(ctx, JobReviewReminders, Daily{Hour: s.cfg.ReviewReminderHour})
	go s.schedule(ctx, JobPIPCheckIns, Weekly{Weekday: s.cfg.PIPCheckInWeekday, Hour: s.cfg.PIPCheckInHour})
	if s.cfg.ArchiveInterval > 0 {
		go s.schedule(ctx, JobArchive, Every{Interval: s.cfg.ArchiveInterval})
	}
}

func (s *Service) Enqueue(name string) error {
	run, err := s.runner(name)
	if err != nil {
		return err
	}
	select {
	case s.queue <- job{Type: name, Run: run}:
	default:
		s.logger.Warn("job queue full", "jobType", name)
	}
	return nil
}

// RunNow executes a job synchronously and records the run.
func (s *Service) RunNow(ctx context.Context, name string) (any, error) {
	run, err := s.runner(name)
	if err != nil {
		return nil, err
	}
	return s.runJob(ctx, job{Type: name, Run: run})
}

func (s *Service) runner(name string) (func(context.Context) (any, error), error) {
	switch name {
	case JobReviewReminders:
		return func(ctx context.Context) (any, error) { return s.sweeper.SendReviewReminders(ctx) }, nil
	case JobPIPCheckIns:
		return func(ctx context.Context) (any, error) { return s.sweeper.SendPIPCheckInReminders(ctx) }, nil
	case JobArchive:
		retention := s.cfg.ArchiveAfter
		return func(ctx context.Context) (any, error) {
			result, err := s.sweeper.ArchiveReviews(ctx, retention)
			return map[string]any{
				"cutoffDate": s.now().UTC().Add(-retention),
				"processed":  result.Processed,
				"failed":     result.Failed,
			}, err
		}, nil
	}
	return nil, ErrUnknownJob
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.logger.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, recErr := s.recorder.Start(ctx, j.Type)
	if recErr != nil {
		s.logger.Warn("job run insert failed", "jobType", j.Type, "err", recErr)
	}

	started := s.now()
	details, err := j.Run(ctx)
	status := statusCompleted
	if err != nil {
		status = statusFailed
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.logger.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if recErr == nil {
		if updErr := s.recorder.Finish(ctx, runID, status, detailsJSON); updErr != nil {
			s.logger.Warn("job run update failed", "jobType", j.Type, "err", updErr)
		}
	}
	s.logger.Info("job run finished", "jobType", j.Type, "status", status, "durationMs", s.now().Sub(started).Milliseconds())
	return details, err
}

func (s *Service) schedule(ctx context.Context, name string, sched Schedule) {
	for {
		next := sched.Next(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.Enqueue(name); err != nil {
				s.logger.Warn("job enqueue failed", "jobType", name, "err", err)
			}
		}
	}
}
