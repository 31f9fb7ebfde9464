// Package maintenance schedules background cleanup of expired one-time codes.
package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Derakings/Goalsaver/internal/service"
)

const defaultSchedule = "@every 5m"

// Sweeper periodically deletes expired OTP records.
type Sweeper struct {
	otp      *service.OTPService
	cron     *cron.Cron
	log      *zap.Logger
	schedule string
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for the sweep.
func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// NewSweeper constructs a Sweeper with sensible defaults.
func NewSweeper(otp *service.OTPService, logger *zap.Logger, opts ...Option) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sweeper{
		otp:      otp,
		log:      logger,
		schedule: defaultSchedule,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s
}

// Start registers the sweep job and launches the scheduler.
func (s *Sweeper) Start() error {
	if s.otp == nil {
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.otp.Sweep(context.Background()); err != nil {
			s.log.Warn("otp sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to complete.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes a single sweep. Used in tests and during shutdown.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	if s.otp == nil {
		return nil
	}
	return s.otp.Sweep(ctx)
}
