package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/postindex/internal/content"
	"git.home.luguber.info/inful/postindex/internal/logfields"
	"git.home.luguber.info/inful/postindex/internal/metrics"
	"git.home.luguber.info/inful/postindex/internal/notify"
	"git.home.luguber.info/inful/postindex/internal/post"
	"git.home.luguber.info/inful/postindex/internal/retry"
)

// Result describes one reload.
type Result struct {
	// Swapped is false when the new content matched the current snapshot.
	Swapped bool
	Report  content.Report
	Current *post.Index
}

// Reloader rebuilds the index through a loader and swaps it into a Holder.
type Reloader struct {
	holder    *Holder
	loader    *content.Loader
	policy    retry.Policy
	publisher notify.Publisher
	recorder  metrics.Recorder
	logger    *slog.Logger

	mu sync.Mutex
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithRetryPolicy sets the backoff used for retryable load failures.
func WithRetryPolicy(p retry.Policy) ReloaderOption {
	return func(r *Reloader) { r.policy = p }
}

// WithPublisher sets where swap events are sent.
func WithPublisher(p notify.Publisher) ReloaderOption {
	return func(r *Reloader) {
		if p != nil {
			r.publisher = p
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) ReloaderOption {
	return func(r *Reloader) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ReloaderOption {
	return func(r *Reloader) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReloader returns a reloader feeding holder from loader.
func NewReloader(holder *Holder, loader *content.Loader, opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		holder:    holder,
		loader:    loader,
		policy:    retry.DefaultPolicy(),
		publisher: notify.Noop{},
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reload loads the source and swaps the result in when its fingerprint
// differs from the current snapshot. On failure the current snapshot stays
// in place and the last load error is returned. Concurrent calls run one at
// a time.
func (r *Reloader) Reload(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	source := r.loader.Source().Name()
	var (
		idx    *post.Index
		report content.Report
	)
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		idx, report, err = r.loader.Load(ctx)
		return err
	}, func(n int, err error, delay time.Duration) {
		r.recorder.IncReloadRetry(source)
		r.logger.Warn("Reload failed, retrying",
			logfields.Source(source),
			slog.Int("retry", n),
			slog.Duration("delay", delay),
			logfields.Error(err))
	})
	current := r.holder.Current()
	if err != nil {
		r.logger.Error("Reload failed, keeping current snapshot",
			logfields.Source(source),
			logfields.SnapshotID(current.SnapshotID()),
			logfields.Error(err))
		return Result{Report: report, Current: current}, err
	}

	if current != nil && current.Fingerprint() == idx.Fingerprint() {
		r.logger.Debug("Content unchanged", logfields.Source(source), logfields.SnapshotID(current.SnapshotID()))
		return Result{Report: report, Current: current}, nil
	}

	r.holder.Swap(idx)
	r.recorder.IncSnapshotSwap()
	r.recorder.SetIndexedPosts(idx.Len())
	r.logger.Info("Snapshot swapped",
		logfields.Source(source),
		logfields.SnapshotID(idx.SnapshotID()),
		logfields.Count(idx.Len()))

	if err := r.publisher.Publish(ctx, notify.NewEvent(idx)); err != nil {
		r.logger.Warn("Failed to publish snapshot event", logfields.SnapshotID(idx.SnapshotID()), logfields.Error(err))
	}
	return Result{Swapped: true, Report: report, Current: idx}, nil
}
