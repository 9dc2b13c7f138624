package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
service:
  name: "judgments-test"
  port: 9000
elasticsearch:
  url: "http://es:9200"
  queries_index: "custom_queries"
judgments:
  zero_expectation_policy: "omit_pair"
  max_position: 20
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Name != "judgments-test" {
		t.Errorf("Load() cfg.Service.Name = %v, want judgments-test", cfg.Service.Name)
	}

	if cfg.Service.Port != 9000 {
		t.Errorf("Load() cfg.Service.Port = %v, want 9000", cfg.Service.Port)
	}

	if cfg.Elasticsearch.URL != "http://es:9200" {
		t.Errorf("Load() cfg.Elasticsearch.URL = %v, want http://es:9200", cfg.Elasticsearch.URL)
	}

	if cfg.Elasticsearch.QueriesIndex != "custom_queries" {
		t.Errorf("Load() cfg.Elasticsearch.QueriesIndex = %v, want custom_queries", cfg.Elasticsearch.QueriesIndex)
	}

	if cfg.Judgments.ZeroExpectationPolicy != PolicyOmitPair {
		t.Errorf("Load() cfg.Judgments.ZeroExpectationPolicy = %v, want %v",
			cfg.Judgments.ZeroExpectationPolicy, PolicyOmitPair)
	}

	if cfg.Judgments.MaxPosition != 20 {
		t.Errorf("Load() cfg.Judgments.MaxPosition = %v, want 20", cfg.Judgments.MaxPosition)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "service: {}\n"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != defaultServicePort {
		t.Errorf("Load() cfg.Service.Port = %v, want %v", cfg.Service.Port, defaultServicePort)
	}

	if cfg.Elasticsearch.URL != defaultESURL {
		t.Errorf("Load() cfg.Elasticsearch.URL = %v, want %v", cfg.Elasticsearch.URL, defaultESURL)
	}

	if cfg.Elasticsearch.QueriesIndex != defaultQueriesIdx {
		t.Errorf("Load() cfg.Elasticsearch.QueriesIndex = %v, want %v",
			cfg.Elasticsearch.QueriesIndex, defaultQueriesIdx)
	}

	if cfg.Elasticsearch.EventsIndex != defaultEventsIdx {
		t.Errorf("Load() cfg.Elasticsearch.EventsIndex = %v, want %v",
			cfg.Elasticsearch.EventsIndex, defaultEventsIdx)
	}

	if cfg.Elasticsearch.FetchSize != defaultFetchSize {
		t.Errorf("Load() cfg.Elasticsearch.FetchSize = %v, want %v",
			cfg.Elasticsearch.FetchSize, defaultFetchSize)
	}

	if cfg.Elasticsearch.Timeout != defaultESTimeoutS*time.Second {
		t.Errorf("Load() cfg.Elasticsearch.Timeout = %v, want %v",
			cfg.Elasticsearch.Timeout, defaultESTimeoutS*time.Second)
	}

	if cfg.Elasticsearch.MessageType != defaultMessageType {
		t.Errorf("Load() cfg.Elasticsearch.MessageType = %v, want %v",
			cfg.Elasticsearch.MessageType, defaultMessageType)
	}

	if cfg.Judgments.ZeroExpectationPolicy != PolicyGradeZero {
		t.Errorf("Load() cfg.Judgments.ZeroExpectationPolicy = %v, want %v",
			cfg.Judgments.ZeroExpectationPolicy, PolicyGradeZero)
	}

	if len(cfg.Judgments.Percentiles) == 0 {
		t.Error("Load() cfg.Judgments.Percentiles is empty, want defaults")
	}

	if cfg.Judgments.OutputFile != defaultOutputFile {
		t.Errorf("Load() cfg.Judgments.OutputFile = %v, want %v", cfg.Judgments.OutputFile, defaultOutputFile)
	}

	if cfg.Database.SSLMode != defaultDBSSLMode {
		t.Errorf("Load() cfg.Database.SSLMode = %v, want %v", cfg.Database.SSLMode, defaultDBSSLMode)
	}

	if cfg.Logging.Level != defaultLoggingLevel {
		t.Errorf("Load() cfg.Logging.Level = %v, want %v", cfg.Logging.Level, defaultLoggingLevel)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ELASTICSEARCH_URL", "http://override:9200")
	t.Setenv("JUDGMENT_MAX_POSITION", "5")

	cfg, err := Load(writeConfig(t, `
elasticsearch:
  url: "http://file:9200"
`))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Elasticsearch.URL != "http://override:9200" {
		t.Errorf("Load() cfg.Elasticsearch.URL = %v, want http://override:9200", cfg.Elasticsearch.URL)
	}

	if cfg.Judgments.MaxPosition != 5 {
		t.Errorf("Load() cfg.Judgments.MaxPosition = %v, want 5", cfg.Judgments.MaxPosition)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name:   "invalid port",
			modify: func(c *Config) { c.Service.Port = -1 },
		},
		{
			name:   "missing elasticsearch url",
			modify: func(c *Config) { c.Elasticsearch.URL = "" },
		},
		{
			name:   "zero fetch size",
			modify: func(c *Config) { c.Elasticsearch.FetchSize = 0 },
		},
		{
			name:   "unknown zero expectation policy",
			modify: func(c *Config) { c.Judgments.ZeroExpectationPolicy = "clamp" },
		},
		{
			name:   "negative max position",
			modify: func(c *Config) { c.Judgments.MaxPosition = -1 },
		},
		{
			name:   "percentile out of range",
			modify: func(c *Config) { c.Judgments.Percentiles = []float64{50, 120} },
		},
		{
			name: "database enabled with bad port",
			modify: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Port = 0
			},
		},
		{
			name:   "invalid log level",
			modify: func(c *Config) { c.Logging.Level = "verbose" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.modify(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
