package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/logfields"
	"git.home.luguber.info/inful/postindex/internal/markdown"
	"git.home.luguber.info/inful/postindex/internal/metrics"
	"git.home.luguber.info/inful/postindex/internal/post"
)

// Policy decides what happens to malformed records.
type Policy = config.LoadPolicy

const (
	// PolicyStrict aborts the load on the first malformed record.
	PolicyStrict = config.PolicyStrict
	// PolicyPartial skips malformed records and reports them.
	PolicyPartial = config.PolicyPartial
)

// Skipped describes a record left out under PolicyPartial.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes one load.
type Report struct {
	Source   string        `json:"source"`
	Records  int           `json:"records"`
	Loaded   int           `json:"loaded"`
	Skipped  []Skipped     `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Loader reads a Source and builds a post index from it.
type Loader struct {
	src      Source
	policy   Policy
	analysis markdown.Options
	recorder metrics.Recorder
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPolicy selects strict or partial handling of malformed records.
func WithPolicy(p Policy) LoaderOption { return func(l *Loader) { l.policy = p } }

// WithMarkdownOptions tunes body analysis.
func WithMarkdownOptions(o markdown.Options) LoaderOption {
	return func(l *Loader) { l.analysis = o }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) LoaderOption {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader returns a strict loader for src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		src:      src,
		policy:   PolicyStrict,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the loader's source.
func (l *Loader) Source() Source { return l.src }

// Load reads every record and builds an index.
//
// An unreadable source is always an error. Under PolicyStrict the first
// malformed record or duplicate ID aborts the load; under PolicyPartial such
// records are skipped, logged and listed in the report. Record-level
// failures are marked retryable since a file may be mid-write.
func (l *Loader) Load(ctx context.Context) (*post.Index, Report, error) {
	start := time.Now()
	name := l.src.Name()
	report := Report{Source: name}

	finish := func(outcome metrics.ResultLabel) {
		report.Duration = time.Since(start)
		l.recorder.ObserveLoadDuration(name, report.Duration)
		l.recorder.IncLoadOutcome(name, outcome)
	}

	records, err := l.src.Records(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			finish(metrics.ResultCanceled)
			return nil, report, err
		}
		finish(metrics.ResultFailed)
		if pierrors.IsRetryable(err) {
			return nil, report, err
		}
		return nil, report, pierrors.ContentLoadError(name, err)
	}
	report.Records = len(records)

	posts := make([]post.Post, 0, len(records))
	seen := make(map[string]string, len(records))
	for _, rec := range records {
		p, err := Decode(rec, l.analysis)
		if err == nil {
			if first, dup := seen[p.ID]; dup {
				err = pierrors.DuplicatePostID(p.ID).WithContext("record", rec.Path).WithContext("first", first)
			}
		}
		if err != nil {
			if l.policy != PolicyPartial {
				finish(metrics.ResultFailed)
				loadErr := pierrors.ContentLoadError(name, err).WithContext("record", rec.Path)
				loadErr.Retryable = true
				return nil, report, loadErr
			}
			report.Skipped = append(report.Skipped, Skipped{Path: rec.Path, Reason: err.Error()})
			l.logger.Warn("Skipping malformed record", logfields.Source(name), logfields.Path(rec.Path), logfields.Error(err))
			continue
		}
		seen[p.ID] = rec.Path
		posts = append(posts, p)
	}

	idx, err := post.NewIndex(posts, post.WithSource(name))
	if err != nil {
		finish(metrics.ResultFailed)
		return nil, report, pierrors.ContentLoadError(name, err)
	}
	report.Loaded = idx.Len()

	outcome := metrics.ResultSuccess
	if len(report.Skipped) > 0 {
		outcome = metrics.ResultPartial
		l.recorder.AddSkippedRecords(name, len(report.Skipped))
	}
	finish(outcome)

	l.logger.Info("Content loaded",
		logfields.Source(name),
		logfields.Count(report.Loaded),
		slog.Int("skipped", len(report.Skipped)),
		logfields.SnapshotID(idx.SnapshotID()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return idx, report, nil
}
