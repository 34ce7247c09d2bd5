package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	SNS      SNSConfig      `mapstructure:"sns"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	GinMode         string        `mapstructure:"gin_mode"`
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
	ExportURLExpiry time.Duration `mapstructure:"export_url_expiry"`
}

// SNSConfig configures the workout-logged notification topic.
// Notifications are disabled when TopicARN is empty.
type SNSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	TopicARN        string `mapstructure:"topic_arn"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type GeminiConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheSizeMB int           `mapstructure:"cache_size_mb"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig backs the insights rate limiter. Rate limiting is off when Addr is empty.
type RedisConfig struct {
	Addr           string `mapstructure:"addr"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	InsightsPerMin int    `mapstructure:"insights_per_minute"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	JSON      bool   `mapstructure:"json"`
	File      string `mapstructure:"file"`
	ToStdout  bool   `mapstructure:"to_stdout"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

var defaults = map[string]interface{}{
	"server.address":          ":8080",
	"server.shutdown_timeout": "5s",
	"server.gin_mode":         "release",

	"database.uri":  "mongodb://localhost:27017",
	"database.name": "ironlog",

	"s3.endpoint":          "",
	"s3.region":            "us-east-1",
	"s3.access_key_id":     "",
	"s3.secret_access_key": "",
	"s3.bucket_name":       "ironlog-exports",
	"s3.export_url_expiry": "15m",

	"sns.endpoint":          "",
	"sns.region":            "us-east-1",
	"sns.access_key_id":     "",
	"sns.secret_access_key": "",
	"sns.topic_arn":         "",

	"jwt.secret":     "",
	"jwt.expiration": "1h",

	"gemini.base_url":      "https://generativelanguage.googleapis.com",
	"gemini.api_key":       "",
	"gemini.model":         "gemini-1.5-flash",
	"gemini.timeout":       "30s",
	"gemini.cache_size_mb": 16,
	"gemini.cache_ttl":     "10m",

	"redis.addr":                "",
	"redis.password":            "",
	"redis.db":                  0,
	"redis.insights_per_minute": 10,

	"logging.level":       "info",
	"logging.json":        false,
	"logging.file":        "",
	"logging.to_stdout":   true,
	"logging.max_size_mb": 50,
}

// LoadConfig reads configuration from config.yaml in path and from environment
// variables (server.address -> SERVER_ADDRESS). A missing config file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, config.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	switch {
	case c.JWT.Secret == "":
		return errors.New("jwt.secret is required")
	case c.JWT.Expiration <= 0:
		return errors.New("jwt.expiration must be positive")
	case c.Database.URI == "" || c.Database.Name == "":
		return errors.New("database.uri and database.name are required")
	case c.Redis.Addr != "" && c.Redis.InsightsPerMin <= 0:
		return errors.New("redis.insights_per_minute must be positive when redis.addr is set")
	}
	return nil
}
