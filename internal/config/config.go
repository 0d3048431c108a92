package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"logLevel"`
	Server      struct {
		Port           int           `mapstructure:"port"`
		RequestTimeout time.Duration `mapstructure:"requestTimeout"` // Per-request handler timeout
	} `mapstructure:"server"`
	Database struct {
		PostgresDSN         string `mapstructure:"postgresDSN"`
		PostgresAutoMigrate bool   `mapstructure:"postgresAutoMigrate"`
	} `mapstructure:"database"`
	Completion CompletionConfig `mapstructure:"completion"`
	Auth       struct {
		UserIDHeader string `mapstructure:"userIDHeader"` // Identity header set by the auth proxy
		EmailHeader  string `mapstructure:"emailHeader"`
		NameHeader   string `mapstructure:"nameHeader"`
	} `mapstructure:"auth"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	WorkerPools struct {
		AgentActions ActionWorkerPoolConfig `mapstructure:"agentActions"`
	} `mapstructure:"workerPools"`
}

// CompletionConfig holds configuration for the hosted chat-completion API
type CompletionConfig struct {
	BaseURL    string        `mapstructure:"baseURL"`
	APIKey     string        `mapstructure:"apiKey"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`    // Hard ceiling per completion call
	MaxElapsed time.Duration `mapstructure:"maxElapsed"` // Retry budget for transient failures
}

// ActionWorkerPoolConfig holds configuration for the agent action worker pool
type ActionWorkerPoolConfig struct {
	PoolSize   int           `mapstructure:"poolSize"`   // Number of workers
	QueueSize  int           `mapstructure:"queueSize"`  // Task queue buffer size
	MaxBlock   time.Duration `mapstructure:"maxBlock"`   // Max time to block when submitting if queue full
	ExpiryTime time.Duration `mapstructure:"expiryTime"` // Idle worker expiry time
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("environment", "development")
	v.SetDefault("logLevel", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requestTimeout", 90*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 2112)

	// Completion API defaults
	v.SetDefault("completion.baseURL", "https://api.openai.com/v1")
	v.SetDefault("completion.model", "gpt-4o")
	v.SetDefault("completion.timeout", 60*time.Second)
	v.SetDefault("completion.maxElapsed", 30*time.Second)

	// Identity header defaults (oauth2-proxy style)
	v.SetDefault("auth.userIDHeader", "X-Auth-Request-User")
	v.SetDefault("auth.emailHeader", "X-Auth-Request-Email")
	v.SetDefault("auth.nameHeader", "X-Auth-Request-Preferred-Username")

	// WorkerPools defaults
	v.SetDefault("workerPools.agentActions.poolSize", 8)
	v.SetDefault("workerPools.agentActions.queueSize", 256)
	v.SetDefault("workerPools.agentActions.maxBlock", time.Second)
	v.SetDefault("workerPools.agentActions.expiryTime", time.Minute)

	// Config file settings
	v.SetConfigName("default")
	v.SetConfigType("yaml")

	// Add lookup paths
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("$HOME/.daisi-sdr-service")
	v.AddConfigPath("/etc/daisi-sdr-service")

	// Try to read from config file
	if err := v.ReadInConfig(); err != nil {
		// It's ok if config file is not found, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map environment variables to config fields
	bindEnvs(v, Config{})

	// Read directly from ENV for critical values
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		v.Set("database.postgresDSN", dsn)
	}
	if lgLevel := os.Getenv("LOG_LEVEL"); lgLevel != "" {
		v.Set("logLevel", lgLevel)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		v.Set("completion.apiKey", key)
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		v.Set("completion.baseURL", base)
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

// bindEnvs recursively binds environment variables to config struct fields
func bindEnvs(v *viper.Viper, cfg interface{}, parts ...string) {
	ifv := reflect.ValueOf(cfg)
	ift := reflect.TypeOf(cfg)
	for i := 0; i < ift.NumField(); i++ {
		fieldVal := ifv.Field(i)
		fieldType := ift.Field(i)

		tag := fieldType.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}

		path := append(parts, tag)
		key := strings.Join(path, ".")

		if fieldType.Type.Kind() == reflect.Struct {
			bindEnvs(v, fieldVal.Interface(), path...)
			continue
		}

		_ = v.BindEnv(key)
	}
}
