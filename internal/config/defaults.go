package config

import (
	"strings"

	"git.home.luguber.info/inful/postindex/internal/markdown"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ContentDefaultApplier handles content source defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	ct := &cfg.Content
	if ct.Source == "" {
		ct.Source = SourceFS
	} else {
		ct.Source = SourceType(strings.ToLower(strings.TrimSpace(string(ct.Source))))
	}
	if ct.Dir == "" {
		ct.Dir = "./content"
	}
	if len(ct.Extensions) == 0 {
		ct.Extensions = []string{".md", ".mdx"}
	}
	for i, ext := range ct.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		ct.Extensions[i] = ext
	}
	if ct.WordsPerMinute <= 0 {
		ct.WordsPerMinute = markdown.DefaultWordsPerMinute
	}
	if ct.ExcerptLength <= 0 {
		ct.ExcerptLength = markdown.DefaultExcerptLength
	}
	if ct.Policy == "" {
		ct.Policy = PolicyStrict
	} else {
		ct.Policy = LoadPolicy(strings.ToLower(strings.TrimSpace(string(ct.Policy))))
	}

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "./postindex.db"
	}
	if cfg.Git.Path == "" {
		cfg.Git.Path = "./blog-repo"
	}
	if cfg.Git.Branch == "" {
		cfg.Git.Branch = "main"
	}
	return nil
}

// QueryDefaultApplier handles related-post and search defaults.
type QueryDefaultApplier struct{}

func (q *QueryDefaultApplier) Domain() string { return "query" }

func (q *QueryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Related.MaxTags == 0 {
		cfg.Related.MaxTags = 3
	}
	if cfg.Related.MaxResults == 0 {
		cfg.Related.MaxResults = 3
	}
	if cfg.Search.MinQueryLength == 0 {
		cfg.Search.MinQueryLength = 4
	}
	return nil
}

// WatchDefaultApplier handles reload timing and retry defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	wc := &cfg.Watch
	if wc.Debounce == "" {
		wc.Debounce = "500ms"
	}
	if wc.Interval == "" {
		wc.Interval = "5m"
	}
	if wc.Retry.Mode == "" {
		wc.Retry.Mode = RetryBackoffExponential
	} else if m := NormalizeRetryBackoff(string(wc.Retry.Mode)); m != "" {
		wc.Retry.Mode = m
	}
	if wc.Retry.InitialDelay == "" {
		wc.Retry.InitialDelay = "200ms"
	}
	if wc.Retry.MaxDelay == "" {
		wc.Retry.MaxDelay = "5s"
	}
	if wc.Retry.MaxRetries == 0 {
		wc.Retry.MaxRetries = 3
	}
	return nil
}

// MonitoringDefaultApplier handles admin listener defaults.
type MonitoringDefaultApplier struct{}

func (m *MonitoringDefaultApplier) Domain() string { return "monitoring" }

func (m *MonitoringDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Monitoring.Addr == "" {
		cfg.Monitoring.Addr = ":9090"
	}
	if cfg.Monitoring.MetricsPath == "" {
		cfg.Monitoring.MetricsPath = "/metrics"
	}
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "postindex.snapshots"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	} else {
		cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	}
	return nil
}

// CompositeDefaultApplier runs domain appliers in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier for every configuration domain.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{appliers: []DefaultApplier{
		&ContentDefaultApplier{},
		&QueryDefaultApplier{},
		&WatchDefaultApplier{},
		&MonitoringDefaultApplier{},
	}}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	for _, a := range c.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// MarkdownOptions returns body analysis options for the loader.
func (c ContentConfig) MarkdownOptions() markdown.Options {
	return markdown.Options{WordsPerMinute: c.WordsPerMinute, ExcerptLength: c.ExcerptLength}
}
