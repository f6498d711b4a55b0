package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/helpers"
)

const (
	DefaultQuality          = 75
	DefaultDerivativePrefix = "optimized"
	DefaultTargetExtension  = "webp"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr               string `mapstructure:"addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
	ReadTimeoutSec     int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec    int    `mapstructure:"write_timeout_sec"`
	MaxBodySizeKB      int    `mapstructure:"max_body_size_kb"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	GroupID       string   `mapstructure:"group_id"`
	OutcomesTopic string   `mapstructure:"outcomes_topic"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	LocalPath string `mapstructure:"local_path"`

	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Region    string `mapstructure:"s3_region"`
	S3UseSSL    bool   `mapstructure:"s3_use_ssl"`
}

type ProcessingConfig struct {
	// Quality is a pointer so an explicit 0 is distinguishable from unset.
	Quality          *int   `mapstructure:"quality"`
	DerivativePrefix string `mapstructure:"derivative_prefix"`
	TargetExtension  string `mapstructure:"target_extension"`
	Workers          int    `mapstructure:"workers"`
	// SkipDerivatives skips records whose key lies under DerivativePrefix.
	// Defaults to true; sources uploaded under that prefix need it off.
	SkipDerivatives *bool `mapstructure:"skip_derivatives"`
}

func (p ProcessingConfig) QualityOrDefault() int {
	if p.Quality == nil {
		return DefaultQuality
	}
	return *p.Quality
}

func (p ProcessingConfig) SkipDerivativesOrDefault() bool {
	if p.SkipDerivatives == nil {
		return true
	}
	return *p.SkipDerivatives
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load(path string) (*Config, error) {
	cfg := config.New()

	configPath := path
	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		} else if _, err := os.Stat("/app/config.yaml"); err == nil {
			configPath = "/app/config.yaml"
		} else {
			return nil, fmt.Errorf("config.yaml not found")
		}
	}

	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = ""
	}

	if err := cfg.Load(configPath, envPath, "APP"); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appConfig := &Config{}
	if err := cfg.Unmarshal(appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(appConfig)

	if err := validateConfig(appConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	zlog.Logger.Info().
		Str("storage_type", appConfig.Storage.Type).
		Int("quality", appConfig.Processing.QualityOrDefault()).
		Str("derivative_prefix", appConfig.Processing.DerivativePrefix).
		Int("workers", appConfig.Processing.Workers).
		Msg("Config loaded successfully via wbf")

	return appConfig, nil
}

// FromEnv builds the config from APP_* environment variables only. The Lambda
// runtime ships no config file.
func FromEnv() (*Config, error) {
	appConfig := &Config{
		Storage: StorageConfig{
			Type:        envOr("APP_STORAGE_TYPE", "aws"),
			LocalPath:   os.Getenv("APP_STORAGE_LOCAL_PATH"),
			S3Endpoint:  os.Getenv("APP_STORAGE_S3_ENDPOINT"),
			S3AccessKey: os.Getenv("APP_STORAGE_S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("APP_STORAGE_S3_SECRET_KEY"),
			S3Region:    os.Getenv("APP_STORAGE_S3_REGION"),
		},
		Processing: ProcessingConfig{
			DerivativePrefix: os.Getenv("APP_PROCESSING_DERIVATIVE_PREFIX"),
			TargetExtension:  os.Getenv("APP_PROCESSING_TARGET_EXTENSION"),
		},
		Logging: LoggingConfig{Level: envOr("APP_LOGGING_LEVEL", "info")},
	}

	if v := os.Getenv("APP_STORAGE_S3_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("APP_STORAGE_S3_USE_SSL: %w", err)
		}
		appConfig.Storage.S3UseSSL = b
	}
	if v := os.Getenv("APP_PROCESSING_QUALITY"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("APP_PROCESSING_QUALITY: %w", err)
		}
		appConfig.Processing.Quality = &q
	}
	if v := os.Getenv("APP_PROCESSING_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("APP_PROCESSING_WORKERS: %w", err)
		}
		appConfig.Processing.Workers = n
	}
	if v := os.Getenv("APP_PROCESSING_SKIP_DERIVATIVES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("APP_PROCESSING_SKIP_DERIVATIVES: %w", err)
		}
		appConfig.Processing.SkipDerivatives = &b
	}

	applyDefaults(appConfig)
	if err := validateConfig(appConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return appConfig, nil
}

// ApplyLogLevel sets the global zerolog level from logging.level.
func (c *Config) ApplyLogLevel() error {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func (c *Config) ValidateServer() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("server.shutdown_timeout_sec must be positive")
	}
	if c.Server.ReadTimeoutSec <= 0 {
		return fmt.Errorf("server.read_timeout_sec must be positive")
	}
	if c.Server.WriteTimeoutSec <= 0 {
		return fmt.Errorf("server.write_timeout_sec must be positive")
	}
	if c.Server.MaxBodySizeKB <= 0 {
		return fmt.Errorf("server.max_body_size_kb must be positive")
	}
	return nil
}

func (c *Config) ValidateKafka() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must contain at least one broker")
	}
	if c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("kafka.group_id is required")
	}
	if c.Kafka.OutcomesTopic != "" && c.Kafka.OutcomesTopic == c.Kafka.Topic {
		return fmt.Errorf("kafka.outcomes_topic must differ from kafka.topic")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	// APP_KAFKA_BROKERS arrives as a single comma-separated entry.
	brokers := make([]string, 0, len(cfg.Kafka.Brokers))
	for _, b := range cfg.Kafka.Brokers {
		brokers = append(brokers, helpers.SplitAndTrim(b, ",")...)
	}
	cfg.Kafka.Brokers = brokers

	if cfg.Processing.DerivativePrefix == "" {
		cfg.Processing.DerivativePrefix = DefaultDerivativePrefix
	}
	if cfg.Processing.TargetExtension == "" {
		cfg.Processing.TargetExtension = DefaultTargetExtension
	}
	if cfg.Processing.Workers <= 0 {
		cfg.Processing.Workers = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func validateConfig(cfg *Config) error {
	// Storage
	switch cfg.Storage.Type {
	case "":
		return fmt.Errorf("storage.type is required (local|s3|aws)")
	case "local":
		if cfg.Storage.LocalPath == "" {
			return fmt.Errorf("storage.local_path is required for local storage")
		}
	case "s3":
		if cfg.Storage.S3Endpoint == "" {
			return fmt.Errorf("storage.s3_endpoint is required for s3 storage")
		}
		if cfg.Storage.S3AccessKey == "" || cfg.Storage.S3SecretKey == "" {
			return fmt.Errorf("storage.s3_access_key and storage.s3_secret_key are required for s3 storage")
		}
	case "aws":
	default:
		return fmt.Errorf("storage.type must be 'local', 's3' or 'aws'")
	}

	// Processing
	if q := cfg.Processing.QualityOrDefault(); q < 0 || q > 100 {
		return fmt.Errorf("processing.quality must be within 0..100, got %d", q)
	}
	if strings.Contains(strings.Trim(cfg.Processing.TargetExtension, "."), "/") {
		return fmt.Errorf("processing.target_extension must not contain '/'")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
