package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "neuroflow.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "NEUROFLOW_PORT")
	setString(&cfg.Server.CORSOrigin, "NEUROFLOW_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "NEUROFLOW_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "NEUROFLOW_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "NEUROFLOW_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "NEUROFLOW_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "NEUROFLOW_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.GenAI.URL, "GENAI_URL")
	setString(&cfg.GenAI.APIKey, "GENAI_API_KEY")
	setString(&cfg.GenAI.Model, "GENAI_MODEL")
	setFloat64(&cfg.GenAI.Temperature, "GENAI_TEMPERATURE")
	setString(&cfg.Chroma.URL, "CHROMA_URL")
	setString(&cfg.Logging.Level, "NEUROFLOW_LOG_LEVEL")
	setString(&cfg.Logging.Service, "NEUROFLOW_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "NEUROFLOW_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "NEUROFLOW_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Cooldown, "NEUROFLOW_BREAKER_COOLDOWN")
	setInt64(&cfg.Cache.MaxSizeMB, "NEUROFLOW_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "NEUROFLOW_CACHE_TTL")
	setInt(&cfg.Engine.MaxEscalations, "NEUROFLOW_MAX_ESCALATIONS")
	setInt(&cfg.Engine.MaxRetries, "NEUROFLOW_MAX_RETRIES")
	setDuration(&cfg.Engine.TurnTimeout, "NEUROFLOW_TURN_TIMEOUT")
	setInt(&cfg.Engine.ApprovalSteps, "NEUROFLOW_APPROVAL_STEPS")
	setInt(&cfg.Engine.ApprovalMins, "NEUROFLOW_APPROVAL_MINS")
	setFloat64(&cfg.Cognitive.SigmoidCenterMin, "NEUROFLOW_SIGMOID_CENTER")
	setFloat64(&cfg.Cognitive.SigmoidScaleMin, "NEUROFLOW_SIGMOID_SCALE")
	setInt(&cfg.Cognitive.BreakThresholdMin, "NEUROFLOW_BREAK_THRESHOLD")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.GenAI.URL == "" {
		return errors.New("genai.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Engine.MaxEscalations < 0 {
		return errors.New("engine.max_escalations must be >= 0")
	}
	if cfg.Engine.MaxRetries < 0 {
		return errors.New("engine.max_retries must be >= 0")
	}
	if cfg.Engine.TurnTimeout <= 0 {
		return errors.New("engine.turn_timeout must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
