// Package config holds configuration for the judgment generator service.
package config

import (
	"fmt"
	"time"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/configload"
)

// Default configuration values.
const (
	defaultServiceName = "judgment-generator"
	defaultVersion     = "1.0.0"
	defaultServicePort = 8094

	defaultESURL       = "http://localhost:9200"
	defaultMaxRetries  = 3
	defaultESTimeoutS  = 30
	defaultFetchSize   = 10000
	defaultQueriesIdx  = "ubi_queries"
	defaultEventsIdx   = "ubi_events"
	defaultClickAction = "click"
	defaultMessageType = "CLICK_THROUGH"

	defaultOutputFile = "judgment_list.csv"

	defaultDBHost    = "localhost"
	defaultDBPort    = 5432
	defaultDBUser    = "judgments"
	defaultDBName    = "judgments"
	defaultDBSSLMode = "disable"

	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
)

// Zero-expectation policies for the COEC scorer.
const (
	PolicyGradeZero = "grade_zero"
	PolicyOmitPair  = "omit_pair"
)

// defaultPercentiles is the grade distribution reported when none are configured.
var defaultPercentiles = []float64{25, 50, 75, 90, 99}

// Config holds all configuration for the judgment generator.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Judgments     JudgmentsConfig     `yaml:"judgments"`
	Database      DatabaseConfig      `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port" env:"JUDGMENT_PORT"`
	Debug   bool   `yaml:"debug" env:"JUDGMENT_DEBUG"`
}

// ElasticsearchConfig holds connection and UBI index configuration.
type ElasticsearchConfig struct {
	URL          string        `yaml:"url" env:"ELASTICSEARCH_URL"`
	Username     string        `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password     string        `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	APIKey       string        `yaml:"api_key" env:"ELASTICSEARCH_API_KEY"`
	MaxRetries   int           `yaml:"max_retries"`
	Timeout      time.Duration `yaml:"timeout"`
	QueriesIndex string        `yaml:"queries_index" env:"UBI_QUERIES_INDEX"`
	EventsIndex  string        `yaml:"events_index" env:"UBI_EVENTS_INDEX"`
	FetchSize    int           `yaml:"fetch_size" env:"UBI_FETCH_SIZE"`
	// MessageType filters the events index; only click-through events feed COEC.
	MessageType string `yaml:"message_type"`
	// ClickAction is the action_name that marks a click event.
	ClickAction string `yaml:"click_action"`
}

// JudgmentsConfig holds COEC pipeline configuration.
type JudgmentsConfig struct {
	// ZeroExpectationPolicy decides what happens to a pair whose expected
	// clicks are zero: "grade_zero" keeps it with grade 0.0, "omit_pair"
	// drops it from the judgment list.
	ZeroExpectationPolicy string `yaml:"zero_expectation_policy" env:"JUDGMENT_ZERO_EXPECTATION_POLICY"`
	// MaxPosition caps the positions considered for impressions and clicks.
	// Zero means no cap.
	MaxPosition int `yaml:"max_position" env:"JUDGMENT_MAX_POSITION"`
	// Percentiles of the grade distribution reported in summary statistics.
	Percentiles []float64 `yaml:"percentiles"`
	// OutputFile is where the one-shot generator writes the judgment list.
	OutputFile string `yaml:"output_file" env:"JUDGMENT_OUTPUT_FILE"`
}

// DatabaseConfig holds PostgreSQL configuration for the optional judgment store.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" env:"JUDGMENT_DB_ENABLED"`
	Host     string `yaml:"host" env:"JUDGMENT_DB_HOST"`
	Port     int    `yaml:"port" env:"JUDGMENT_DB_PORT"`
	User     string `yaml:"user" env:"JUDGMENT_DB_USER"`
	Password string `yaml:"password" env:"JUDGMENT_DB_PASSWORD"`
	Database string `yaml:"database" env:"JUDGMENT_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"JUDGMENT_DB_SSLMODE"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := configload.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}

	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = defaultESURL
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = defaultMaxRetries
	}
	if cfg.Elasticsearch.Timeout == 0 {
		cfg.Elasticsearch.Timeout = defaultESTimeoutS * time.Second
	}
	if cfg.Elasticsearch.QueriesIndex == "" {
		cfg.Elasticsearch.QueriesIndex = defaultQueriesIdx
	}
	if cfg.Elasticsearch.EventsIndex == "" {
		cfg.Elasticsearch.EventsIndex = defaultEventsIdx
	}
	if cfg.Elasticsearch.FetchSize == 0 {
		cfg.Elasticsearch.FetchSize = defaultFetchSize
	}
	if cfg.Elasticsearch.MessageType == "" {
		cfg.Elasticsearch.MessageType = defaultMessageType
	}
	if cfg.Elasticsearch.ClickAction == "" {
		cfg.Elasticsearch.ClickAction = defaultClickAction
	}

	if cfg.Judgments.ZeroExpectationPolicy == "" {
		cfg.Judgments.ZeroExpectationPolicy = PolicyGradeZero
	}
	if len(cfg.Judgments.Percentiles) == 0 {
		cfg.Judgments.Percentiles = append([]float64(nil), defaultPercentiles...)
	}
	if cfg.Judgments.OutputFile == "" {
		cfg.Judgments.OutputFile = defaultOutputFile
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = defaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = defaultDBSSLMode
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := configload.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Elasticsearch.URL == "" {
		return &configload.ValidationError{Field: "elasticsearch.url", Message: "is required"}
	}
	if c.Elasticsearch.QueriesIndex == "" {
		return &configload.ValidationError{Field: "elasticsearch.queries_index", Message: "is required"}
	}
	if c.Elasticsearch.EventsIndex == "" {
		return &configload.ValidationError{Field: "elasticsearch.events_index", Message: "is required"}
	}
	if c.Elasticsearch.FetchSize < 1 {
		return &configload.ValidationError{Field: "elasticsearch.fetch_size", Message: "must be greater than 0"}
	}
	switch c.Judgments.ZeroExpectationPolicy {
	case PolicyGradeZero, PolicyOmitPair:
	default:
		return &configload.ValidationError{
			Field:   "judgments.zero_expectation_policy",
			Message: fmt.Sprintf("must be %q or %q", PolicyGradeZero, PolicyOmitPair),
		}
	}
	if c.Judgments.MaxPosition < 0 {
		return &configload.ValidationError{Field: "judgments.max_position", Message: "must not be negative"}
	}
	for _, p := range c.Judgments.Percentiles {
		if p < 0 || p > 100 {
			return &configload.ValidationError{
				Field:   "judgments.percentiles",
				Message: fmt.Sprintf("percentile %v out of range [0,100]", p),
			}
		}
	}
	if c.Database.Enabled {
		if err := configload.ValidatePort("database.port", c.Database.Port); err != nil {
			return err
		}
	}
	if err := configload.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := configload.ValidateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}
