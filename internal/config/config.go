package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the server.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Maps     MapsConfig     `mapstructure:"maps"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	GinMode         string        `mapstructure:"gin_mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig defines JWT specific configuration.
// Expiration is a duration string in config.yaml ("60m", "24h").
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FormatJSON bool   `mapstructure:"format_json"`
	File       string `mapstructure:"file"` // empty: stdout only
	ToStdout   bool   `mapstructure:"to_stdout"`
}

// RedisConfig backs the per-user rate limit on the AI routes.
// An empty address disables rate limiting.
type RedisConfig struct {
	Addr             string `mapstructure:"addr"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	AIRequestsPerMin int    `mapstructure:"ai_requests_per_min"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MapsConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	DefaultRadius int           `mapstructure:"default_radius"` // meters
	CacheSizeMB   int           `mapstructure:"cache_size_mb"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// LoadConfig reads configuration from config.yaml in path, then from
// environment variables (server.address -> SERVER_ADDRESS).
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Durations use the string format, like in config.yaml.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "gymflow")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.to_stdout", true)
	v.SetDefault("redis.ai_requests_per_min", 10)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout", "60s")
	v.SetDefault("maps.base_url", "https://maps.gomaps.pro")
	v.SetDefault("maps.default_radius", 1500)
	v.SetDefault("maps.cache_size_mb", 10)
	v.SetDefault("maps.cache_ttl", "10m")
	v.SetDefault("maps.timeout", "10s")
	v.SetDefault("metrics.namespace", "gymflow")
	v.SetDefault("metrics.subsystem", "server")

	// Unset keys are only picked up from the environment if viper knows them.
	for _, key := range []string{
		"jwt.secret", "s3.endpoint", "s3.access_key_id", "s3.secret_access_key", "s3.bucket_name",
		"redis.addr", "redis.password", "redis.db", "gemini.api_key", "maps.api_key",
		"logging.file", "logging.format_json",
	} {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// No config file; defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, nil
}
