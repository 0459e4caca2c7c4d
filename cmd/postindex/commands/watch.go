package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/postindex/internal/config"
	"git.home.luguber.info/inful/postindex/internal/content"
	"git.home.luguber.info/inful/postindex/internal/logfields"
	"git.home.luguber.info/inful/postindex/internal/metrics"
	"git.home.luguber.info/inful/postindex/internal/notify"
	"git.home.luguber.info/inful/postindex/internal/retry"
	"git.home.luguber.info/inful/postindex/internal/server"
	"git.home.luguber.info/inful/postindex/internal/snapshot"
)

const shutdownTimeout = 10 * time.Second

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Addr    string `help:"Admin listen address (default: monitoring.addr)"`
	NoAdmin bool   `help:"Do not start the admin HTTP listener"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if w.Addr != "" {
		cfg.Monitoring.Addr = w.Addr
	}
	if w.NoAdmin {
		cfg.Monitoring.Addr = ""
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newWatchRuntime(g, cfg)
	if err != nil {
		return err
	}
	return rt.run(ctx)
}

// watchRuntime ties the reload loop, snapshot holder and admin server together.
type watchRuntime struct {
	g         *Global
	cfg       *config.Config
	registry  *prometheus.Registry
	source    content.Source
	closer    interface{ Close() error }
	publisher notify.Publisher
	holder    *snapshot.Holder
	reloader  *snapshot.Reloader
	admin     *server.Server
	trigger   reloadTrigger
}

// reloadTrigger calls the reload function when content may have changed.
type reloadTrigger interface {
	Run(ctx context.Context) error
	io.Closer
}

func newWatchRuntime(g *Global, cfg *config.Config) (*watchRuntime, error) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	g.Recorder = rec

	src, closer, err := content.NewSource(cfg)
	if err != nil {
		return nil, err
	}

	pub, err := notify.FromConfig(cfg.Notify)
	if err != nil {
		g.Logger.Warn("Snapshot notifications unavailable", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		pub = notify.Noop{}
	}

	loader := content.NewLoaderFromConfig(cfg, src, content.WithLogger(g.Logger), content.WithRecorder(rec))
	holder := snapshot.NewHolder(nil)
	reloader := snapshot.NewReloader(holder, loader,
		snapshot.WithRetryPolicy(retry.FromConfig(cfg.Watch.Retry)),
		snapshot.WithPublisher(pub),
		snapshot.WithRecorder(rec),
		snapshot.WithLogger(g.Logger))

	rt := &watchRuntime{
		g:         g,
		cfg:       cfg,
		registry:  reg,
		source:    src,
		closer:    closer,
		publisher: pub,
		holder:    holder,
		reloader:  reloader,
	}
	if cfg.Monitoring.Addr != "" {
		rt.admin = server.New(cfg.Monitoring, holder, metrics.HTTPHandler(reg))
	}
	return rt, nil
}

// run performs the initial load, then reloads on change until ctx is done.
// A failed initial load is logged; /readyz reports not ready until a later
// reload succeeds.
func (rt *watchRuntime) run(ctx context.Context) error {
	defer rt.close()

	if rt.admin != nil {
		if err := rt.admin.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := rt.admin.Stop(stopCtx); err != nil {
				rt.g.Logger.Warn("Admin server shutdown failed", logfields.Error(err))
			}
		}()
	}

	reload := func(ctx context.Context) {
		// Errors are logged by the reloader; the current snapshot stays.
		_, _ = rt.reloader.Reload(ctx)
	}

	// The trigger is set up before the initial load so that no change made
	// during that load is missed.
	if fsSrc, ok := rt.source.(*content.FSSource); ok {
		w, err := snapshot.NewWatcher(fsSrc.Root(), rt.cfg.Watch.DebounceDuration(), reload)
		if err != nil {
			return err
		}
		rt.trigger = w
	} else {
		p, err := snapshot.NewPoller(rt.cfg.Watch.IntervalDuration(), reload)
		if err != nil {
			return err
		}
		rt.trigger = p
	}
	defer func() {
		if err := rt.trigger.Close(); err != nil {
			rt.g.Logger.Warn("Failed to stop reload trigger", logfields.Error(err))
		}
	}()

	if _, err := rt.reloader.Reload(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		rt.g.Logger.Error("Initial load failed", logfields.Source(rt.source.Name()), logfields.Error(err))
	}
	return rt.trigger.Run(ctx)
}

func (rt *watchRuntime) close() {
	if err := rt.publisher.Close(); err != nil {
		rt.g.Logger.Warn("Failed to close publisher", logfields.Error(err))
	}
	if err := rt.closer.Close(); err != nil {
		rt.g.Logger.Warn("Failed to close content source", logfields.Error(err))
	}
}
