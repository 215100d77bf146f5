package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Tavily     TavilyConfig     `mapstructure:"tavily"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Generation GenerationConfig `mapstructure:"generation"`
	S3         S3Config         `mapstructure:"s3"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Mode        string   `mapstructure:"mode"` // gin mode: debug, release, test
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// GeminiConfig configures the generative text model.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// TavilyConfig configures the web search API.
type TavilyConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	MaxResults int           `mapstructure:"max_results"`
	ExtractTop int           `mapstructure:"extract_top"` // 0 disables extract enrichment
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects the search-result cache backend.
type CacheConfig struct {
	Driver   string        `mapstructure:"driver"` // memory, redis, none
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

type GenerationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
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

// Enabled reports whether enough S3 settings are present to build a client.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.Region != ""
}

type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DeactivateAt string `mapstructure:"deactivate_at"` // HH:MM
	Timezone     string `mapstructure:"timezone"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // stdout, otlp
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	ServiceName string  `mapstructure:"service_name"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // dev, prod
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, gemini.api_key -> GEMINI_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	// AutomaticEnv hands list values over as a single comma separated string.
	config.Server.CORSOrigins = splitList(config.Server.CORSOrigins)

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "study_craft")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0.4)
	v.SetDefault("tavily.api_key", "")
	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.max_results", 10)
	v.SetDefault("tavily.extract_top", 3)
	v.SetDefault("tavily.timeout", "15s")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("generation.timeout", "50s")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.deactivate_at", "00:05")
	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_ratio", 0.1)
	v.SetDefault("tracing.service_name", "study-craft")
	v.SetDefault("log.mode", "dev")
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
