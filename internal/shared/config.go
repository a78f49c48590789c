package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"feedback_analyzer/internal/domain"
)

// EnvConfigFile names an optional YAML file loaded before env overrides.
const EnvConfigFile = "CONFIG_FILE"

const (
	OracleLexicon = "lexicon"
	OracleRemote  = "remote"
)

type Config struct {
	AppEnv                string `yaml:"app_env"`
	LogLevel              string `yaml:"log_level"`
	HTTPAddr              string `yaml:"http_addr"`
	MetricsAddr           string `yaml:"metrics_addr"`
	InputPath             string `yaml:"input_path"`
	OutputDir             string `yaml:"output_dir"`
	RowPolicy             string `yaml:"row_policy"`
	Oracle                string `yaml:"oracle"`
	OracleURL             string `yaml:"oracle_url"`
	OracleRPS             int    `yaml:"oracle_rps"`
	RedisAddr             string `yaml:"redis_addr"`
	RedisPass             string `yaml:"redis_password"`
	RedisDB               int    `yaml:"redis_db"`
	CacheTTLSeconds       int    `yaml:"cache_ttl_seconds"`
	MySQLDSN              string `yaml:"mysql_dsn"` // empty disables the database source
	Workers               int    `yaml:"workers"`
	UploadMaxBytes        int64  `yaml:"upload_max_bytes"`
	UploadRPS             int    `yaml:"upload_rps"`
	UploadBurst           int    `yaml:"upload_burst"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

func defaults() Config {
	return Config{
		AppEnv:                "prod",
		LogLevel:              "info",
		HTTPAddr:              ":8080",
		InputPath:             "car_rental_reviews.csv",
		OutputDir:             ".",
		RowPolicy:             "reject",
		Oracle:                OracleLexicon,
		OracleRPS:             20,
		CacheTTLSeconds:       3600,
		Workers:               4,
		UploadMaxBytes:        10 << 20,
		UploadRPS:             5,
		UploadBurst:           10,
		RequestTimeoutSeconds: 30,
	}
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	c := defaults()
	if path := os.Getenv(EnvConfigFile); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	str(&c.AppEnv, "APP_ENV")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.HTTPAddr, "HTTP_ADDR")
	str(&c.MetricsAddr, "METRICS_ADDR")
	str(&c.InputPath, "INPUT_PATH")
	str(&c.OutputDir, "OUTPUT_DIR")
	str(&c.RowPolicy, "ROW_POLICY")
	str(&c.Oracle, "ORACLE")
	str(&c.OracleURL, "ORACLE_URL")
	atoi(&c.OracleRPS, "ORACLE_RPS")
	str(&c.RedisAddr, "REDIS_ADDR")
	str(&c.RedisPass, "REDIS_PASSWORD")
	atoi(&c.RedisDB, "REDIS_DB")
	atoi(&c.CacheTTLSeconds, "CACHE_TTL_SECONDS")
	str(&c.MySQLDSN, "MYSQL_DSN")
	atoi(&c.Workers, "WORKERS")
	atoi64(&c.UploadMaxBytes, "UPLOAD_MAX_BYTES")
	atoi(&c.UploadRPS, "UPLOAD_RPS")
	atoi(&c.UploadBurst, "UPLOAD_BURST")
	atoi(&c.RequestTimeoutSeconds, "REQUEST_TIMEOUT_SECONDS")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	if c.RedisAddr == "" {
		log.Debug().Msg("REDIS_ADDR is empty; oracle score cache disabled")
	}
	return c, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := domain.ParseRowPolicy(c.RowPolicy); err != nil {
		return err
	}
	switch c.Oracle {
	case OracleLexicon:
	case OracleRemote:
		if c.OracleURL == "" {
			return fmt.Errorf("ORACLE=remote requires ORACLE_URL")
		}
	default:
		return fmt.Errorf("unknown oracle %q (want %s|%s)", c.Oracle, OracleLexicon, OracleRemote)
	}
	return nil
}

// Policy returns the parsed row policy; Validate has already vetted it.
func (c Config) Policy() domain.RowPolicy {
	p, _ := domain.ParseRowPolicy(c.RowPolicy)
	return p
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func str(dst *string, k string) {
	if v := os.Getenv(k); v != "" {
		*dst = v
	}
}

func atoi(dst *int, k string) {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
	}
}

func atoi64(dst *int64, k string) {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		} else {
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
	}
}
