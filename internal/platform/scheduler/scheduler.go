// Package scheduler runs periodic maintenance jobs on gocron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// TaskFunc is a unit of scheduled work. A returned error is logged, never retried early.
type TaskFunc func(ctx context.Context) error

type Scheduler struct {
	scheduler gocron.Scheduler
}

func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop は実行中のジョブの完了を待ってから停止します。
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// NewIntervalJob は interval ごとに fn を実行します。前回の実行が終わっていなければ次回へ回します。
func (s *Scheduler) NewIntervalJob(name string, fn TaskFunc, interval time.Duration, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	if _, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(withRecover(name, fn)), opts...); err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}
	return nil
}

// withRecover はジョブのパニックでスケジューラーが止まらないようにします。
func withRecover(name string, fn TaskFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic recovered in scheduler job",
					"job", name,
					"panic", r,
					"stacktrace", string(debug.Stack()),
				)
			}
		}()

		start := time.Now()
		if err := fn(ctx); err != nil {
			slog.Error("job failed", "job", name, "error", err)
			return
		}
		slog.Debug("job completed", "job", name, "elapsed", time.Since(start))
	}
}
