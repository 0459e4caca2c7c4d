package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "postindex.yaml"

// CurrentVersion is the only configuration version Load accepts.
const CurrentVersion = "1"

// Config represents the postindex configuration file.
type Config struct {
	Version    string           `yaml:"version"`
	Content    ContentConfig    `yaml:"content"`
	SQLite     SQLiteConfig     `yaml:"sqlite,omitempty"`
	Git        GitConfig        `yaml:"git,omitempty"`
	Related    RelatedConfig    `yaml:"related"`
	Search     SearchConfig     `yaml:"search"`
	Watch      WatchConfig      `yaml:"watch"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Notify     NotifyConfig     `yaml:"notify,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// SourceType selects where posts are read from.
type SourceType string

const (
	SourceFS     SourceType = "fs"
	SourceSQLite SourceType = "sqlite"
	SourceGit    SourceType = "git"
)

// LoadPolicy selects how malformed records are handled.
type LoadPolicy string

const (
	PolicyStrict  LoadPolicy = "strict"
	PolicyPartial LoadPolicy = "partial"
)

// ContentConfig describes the content source.
type ContentConfig struct {
	Source     SourceType `yaml:"source"`
	Dir        string     `yaml:"dir"`
	Include    []string   `yaml:"include,omitempty"`
	Exclude    []string   `yaml:"exclude,omitempty"`
	Extensions []string   `yaml:"extensions,omitempty"`
	Policy     LoadPolicy `yaml:"policy"`

	WordsPerMinute int `yaml:"words_per_minute,omitempty"`
	ExcerptLength  int `yaml:"excerpt_length,omitempty"`
}

// SQLiteConfig locates the SQLite content database.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// GitConfig describes a git repository holding posts. Posts are read from
// the committed tree at HEAD, below Subdir.
type GitConfig struct {
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path"`
	Subdir string `yaml:"subdir,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// RelatedConfig tunes related-post selection.
type RelatedConfig struct {
	MaxTags    int `yaml:"max_tags"`
	MaxResults int `yaml:"max_results"`
}

// SearchConfig tunes title search.
type SearchConfig struct {
	MinQueryLength int `yaml:"min_query_length"`
}

// WatchConfig controls reloading in `postindex watch`.
type WatchConfig struct {
	Debounce string      `yaml:"debounce"`
	Interval string      `yaml:"interval"`
	Retry    RetryConfig `yaml:"retry"`
}

// RetryConfig configures transient-failure retries during reload.
type RetryConfig struct {
	Mode         RetryBackoffMode `yaml:"mode"`
	InitialDelay string           `yaml:"initial_delay"`
	MaxDelay     string           `yaml:"max_delay"`
	MaxRetries   int              `yaml:"max_retries"`
}

// MonitoringConfig configures the admin HTTP listener.
type MonitoringConfig struct {
	Addr        string `yaml:"addr"`
	MetricsPath string `yaml:"metrics_path"`
}

// NotifyConfig configures snapshot notifications. An empty NATSURL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingConfig sets the default log level; --verbose and
// POSTINDEX_LOG_LEVEL take precedence.
type LoggingConfig struct {
	Level LogLevel `yaml:"level,omitempty"`
}

// DebounceDuration returns the parsed debounce delay. Call after Load.
func (w WatchConfig) DebounceDuration() time.Duration { return mustDuration(w.Debounce) }

// IntervalDuration returns the parsed poll interval. Call after Load.
func (w WatchConfig) IntervalDuration() time.Duration { return mustDuration(w.Interval) }

// InitialDelayDuration returns the parsed initial retry delay.
func (r RetryConfig) InitialDelayDuration() time.Duration { return mustDuration(r.InitialDelay) }

// MaxDelayDuration returns the parsed retry delay cap.
func (r RetryConfig) MaxDelayDuration() time.Duration { return mustDuration(r.MaxDelay) }

// mustDuration parses values already checked by validation.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// Load reads, expands, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	if loaded, err := loadEnvFiles(); err == nil {
		slog.Debug("Loaded environment variables", "files", loaded)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, pierrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, pierrors.Wrap(err, pierrors.CategoryConfig, pierrors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it as a
// configuration, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, pierrors.Wrap(err, pierrors.CategoryConfig, pierrors.SeverityFatal, "failed to unmarshal config")
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, pierrors.ValidationFailed("version", fmt.Sprintf("unsupported configuration version %q (expected %s)", cfg.Version, CurrentVersion))
	}

	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a fully defaulted configuration for a filesystem source
// rooted at ./content.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return pierrors.New(pierrors.CategoryConfig, pierrors.SeverityError, "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}

	example := Config{
		Version: CurrentVersion,
		Content: ContentConfig{
			Source:     SourceFS,
			Dir:        "./content",
			Include:    []string{"**"},
			Exclude:    []string{"drafts/**"},
			Extensions: []string{".md", ".mdx"},
			Policy:     PolicyStrict,
		},
		SQLite: SQLiteConfig{Path: "./postindex.db"},
		Git: GitConfig{
			URL:    "https://github.com/example/blog.git",
			Branch: "main",
			Path:   "./blog-repo",
			Subdir: "posts",
			Token:  "${GIT_TOKEN}",
		},
		Related: RelatedConfig{MaxTags: 3, MaxResults: 3},
		Search:  SearchConfig{MinQueryLength: 4},
		Watch: WatchConfig{
			Debounce: "500ms",
			Interval: "5m",
			Retry: RetryConfig{
				Mode:         RetryBackoffExponential,
				InitialDelay: "200ms",
				MaxDelay:     "5s",
				MaxRetries:   3,
			},
		},
		Monitoring: MonitoringConfig{Addr: ":9090", MetricsPath: "/metrics"},
		Notify:     NotifyConfig{NATSURL: "${NATS_URL}", Subject: "postindex.snapshots"},
		Logging:    LoggingConfig{Level: LogLevelInfo},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return pierrors.InternalError("failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return pierrors.FileSystemError("write config", err).WithContext("path", configPath)
	}

	return nil
}
