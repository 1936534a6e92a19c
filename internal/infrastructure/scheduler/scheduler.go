package scheduler

import (
	"context"
	"time"

	"github.com/ckrstars/habititt/internal/domain/habits"
	"github.com/ckrstars/habititt/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives the daily rollover: at local midnight every habit's
// current-cycle progress resets and cached streaks are re-anchored
// against the new "today".
type Scheduler struct {
	habitService habits.Service
	cron         *cron.Cron
	spec         string
	logger       *logger.Logger
}

func NewScheduler(habitService habits.Service, spec string, log *logger.Logger) *Scheduler {
	if spec == "" {
		spec = "0 0 * * *"
	}
	return &Scheduler{
		habitService: habitService,
		cron:         cron.New(),
		spec:         spec,
		logger:       log,
	}
}

// Start registers the rollover job and runs it once immediately so a
// server started mid-day still sees yesterday's progress cleared.
func (s *Scheduler) Start() error {
	s.runRollover()

	entryID, err := s.cron.AddFunc(s.spec, s.runRollover)
	if err != nil {
		return err
	}
	s.cron.Start()

	s.logger.Info("Habit scheduler initialized",
		zap.String("spec", s.spec),
		zap.Time("next_run", s.cron.Entry(entryID).Next),
	)
	return nil
}

// Stop waits for a running job to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runRollover() {
	ctx := context.Background()
	startTime := time.Now()

	s.logger.Info("Starting daily rollover", zap.Time("start_time", startTime))

	resetCount, err := s.habitService.ResetDailyProgress(ctx)
	if err != nil {
		s.logger.Error("Failed to reset daily progress", zap.Error(err))
	} else {
		s.logger.Info("Reset daily progress",
			zap.Int64("reset_count", resetCount),
		)
	}

	resyncCount, err := s.habitService.ResyncStreaks(ctx)
	if err != nil {
		s.logger.Error("Failed to resync streaks", zap.Error(err))
	} else {
		s.logger.Info("Resynced streaks",
			zap.Int64("adjusted_count", resyncCount),
		)
	}

	s.logger.Info("Completed daily rollover",
		zap.Duration("duration", time.Since(startTime)),
	)
}
