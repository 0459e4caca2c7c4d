package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// Poller calls a function on a fixed interval. A run still in progress when
// the next one is due pushes that run back instead of overlapping it.
type Poller struct {
	scheduler gocron.Scheduler
	interval  time.Duration
	task      func(context.Context)

	closeOnce sync.Once
	closeErr  error
}

// NewPoller returns a poller; nothing runs until Run.
func NewPoller(interval time.Duration, task func(context.Context)) (*Poller, error) {
	if interval <= 0 {
		return nil, pierrors.InvalidArgument("interval", "must be > 0")
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, pierrors.InternalError("failed to create gocron scheduler", err)
	}
	return &Poller{scheduler: s, interval: interval, task: task}, nil
}

// Run schedules the task and blocks until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	_, err := p.scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(func() { p.task(ctx) }),
		gocron.WithName("postindex-reload"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = p.Close()
		return pierrors.InternalError("failed to create reload job", err)
	}

	slog.Info("Starting reload poller", slog.Duration("interval", p.interval))
	p.scheduler.Start()
	<-ctx.Done()

	slog.Info("Stopping reload poller")
	return p.Close()
}

// Close shuts the scheduler down, waiting for a running task. Calling it
// again is a no-op.
func (p *Poller) Close() error {
	p.closeOnce.Do(func() {
		if err := p.scheduler.Shutdown(); err != nil {
			p.closeErr = pierrors.InternalError("failed to stop scheduler", err)
		}
	})
	return p.closeErr
}
