package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// ValidateConfig validates a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	checks := []func() error{
		cv.validateContent,
		cv.validateSourceSettings,
		cv.validateQueries,
		cv.validateWatch,
		cv.validateMonitoring,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	ct := cv.config.Content
	switch ct.Source {
	case SourceFS, SourceSQLite, SourceGit:
	default:
		return pierrors.ValidationFailed("content.source", fmt.Sprintf("invalid source %q (allowed: fs|sqlite|git)", ct.Source))
	}
	switch ct.Policy {
	case PolicyStrict, PolicyPartial:
	default:
		return pierrors.ValidationFailed("content.policy", fmt.Sprintf("invalid policy %q (allowed: strict|partial)", ct.Policy))
	}
	for _, p := range append(append([]string{}, ct.Include...), ct.Exclude...) {
		if _, err := glob.Compile(p, '/'); err != nil {
			return pierrors.ValidationFailed("content.include", fmt.Sprintf("invalid pattern %q: %v", p, err))
		}
	}
	for _, ext := range ct.Extensions {
		if ext == "" || ext == "." {
			return pierrors.ValidationFailed("content.extensions", "empty extension")
		}
	}
	return nil
}

func (cv *configurationValidator) validateSourceSettings() error {
	switch cv.config.Content.Source {
	case SourceFS:
		if strings.TrimSpace(cv.config.Content.Dir) == "" {
			return pierrors.ValidationFailed("content.dir", "required for fs source")
		}
	case SourceSQLite:
		if strings.TrimSpace(cv.config.SQLite.Path) == "" {
			return pierrors.ValidationFailed("sqlite.path", "required for sqlite source")
		}
	case SourceGit:
		if strings.TrimSpace(cv.config.Git.Path) == "" {
			return pierrors.ValidationFailed("git.path", "required for git source")
		}
		if strings.HasPrefix(cv.config.Git.Subdir, "/") || strings.Contains(cv.config.Git.Subdir, "..") {
			return pierrors.ValidationFailed("git.subdir", "must be a relative path inside the repository")
		}
	}
	return nil
}

func (cv *configurationValidator) validateQueries() error {
	if cv.config.Related.MaxTags < 0 {
		return pierrors.ValidationFailed("related.max_tags", "cannot be negative")
	}
	if cv.config.Related.MaxResults < 0 {
		return pierrors.ValidationFailed("related.max_results", "cannot be negative")
	}
	if cv.config.Search.MinQueryLength < 0 {
		return pierrors.ValidationFailed("search.min_query_length", "cannot be negative")
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	for field, value := range map[string]string{
		"watch.debounce":            w.Debounce,
		"watch.interval":            w.Interval,
		"watch.retry.initial_delay": w.Retry.InitialDelay,
		"watch.retry.max_delay":     w.Retry.MaxDelay,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return pierrors.ValidationFailed(field, fmt.Sprintf("invalid duration %q", value))
		}
		if d < 0 {
			return pierrors.ValidationFailed(field, "cannot be negative")
		}
	}
	if w.IntervalDuration() == 0 {
		return pierrors.ValidationFailed("watch.interval", "must be greater than zero")
	}
	if w.Retry.MaxDelayDuration() < w.Retry.InitialDelayDuration() {
		return pierrors.ValidationFailed("watch.retry.max_delay", fmt.Sprintf("max_delay (%s) must be >= initial_delay (%s)", w.Retry.MaxDelay, w.Retry.InitialDelay))
	}
	switch w.Retry.Mode {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		return pierrors.ValidationFailed("watch.retry.mode", fmt.Sprintf("invalid mode %q (allowed: fixed|linear|exponential)", w.Retry.Mode))
	}
	if w.Retry.MaxRetries < 0 {
		return pierrors.ValidationFailed("watch.retry.max_retries", "cannot be negative")
	}
	return nil
}

func (cv *configurationValidator) validateMonitoring() error {
	if !strings.HasPrefix(cv.config.Monitoring.MetricsPath, "/") {
		return pierrors.ValidationFailed("monitoring.metrics_path", "must start with /")
	}
	if cv.config.Notify.NATSURL != "" && strings.TrimSpace(cv.config.Notify.Subject) == "" {
		return pierrors.ValidationFailed("notify.subject", "required when nats_url is set")
	}
	return nil
}
