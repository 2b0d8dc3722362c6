package scheduler

import (
	"context"

	"contact-dedup/internal/logger"
	"contact-dedup/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type detector interface {
	DetectAll(ctx context.Context) ([]*service.DetectionReport, error)
}

// cronLogger routes robfig/cron's logging through zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Scheduler runs duplicate detection over every scope on a cron spec.
type Scheduler struct {
	cron     *cron.Cron
	detector detector
	spec     string
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler. spec uses the six-field format with seconds.
func NewScheduler(detector detector, spec string) *Scheduler {
	log := logger.Component("scheduler")
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		detector: detector,
		spec:     spec,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the detection job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunDetectionNow(s.ctx); err != nil {
			s.log.Error().Err(err).Msg("scheduled duplicate detection failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// Stop cancels a running detection and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunDetectionNow runs detection over every scope immediately.
func (s *Scheduler) RunDetectionNow(ctx context.Context) error {
	s.log.Info().Msg("running duplicate detection")
	reports, err := s.detector.DetectAll(ctx)

	var created, failed int
	for _, r := range reports {
		created += r.Created
		failed += r.Failed
	}
	s.log.Info().
		Int("scopes", len(reports)).
		Int("created", created).
		Int("failed", failed).
		Msg("duplicate detection run complete")
	return err
}

// Entries returns the registered cron entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
