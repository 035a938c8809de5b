// Package config loads the application configuration from an optional YAML
// file, an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"contractscanner/pkg/serrors"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the scanning service client,
// the agent HTTP server, and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// SolidityScan contains the settings of the scanning service client
	SolidityScan struct {
		// APIKey is sent as "Authorization: Token <key>"
		APIKey string `env:"SOLIDITYSCAN_API_KEY" yaml:"apiKey"`
		// BaseURL is the scheme and host of the API
		BaseURL string `env:"SOLIDITYSCAN_BASE_URL" env-default:"https://api.solidityscan.com" yaml:"baseUrl"`
		// Timeout bounds a single attempt
		Timeout time.Duration `env:"SOLIDITYSCAN_TIMEOUT" env-default:"60s" yaml:"timeout"`
		// MaxAttempts is the total number of attempts for timed out requests
		MaxAttempts int `env:"SOLIDITYSCAN_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// InitialBackoff is the delay before the first retry; it doubles afterwards
		InitialBackoff time.Duration `env:"SOLIDITYSCAN_INITIAL_BACKOFF" env-default:"5s" yaml:"initialBackoff"`
	} `yaml:"solidityScan"`

	// Agent contains all agent HTTP server related configurations
	Agent struct {
		// APIKey is the bearer token callers must present
		APIKey string `env:"AGENT_API_KEY" yaml:"apiKey"`
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"AGENT_HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"AGENT_HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"AGENT_HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout must cover a combined scan with every retry
		WriteTimeout time.Duration `env:"AGENT_HTTP_WRITE_TIMEOUT" env-default:"8m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"AGENT_HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"AGENT_HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"AGENT_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// CORSOrigins lists the origins allowed to call the API from a browser
		CORSOrigins []string `env:"AGENT_CORS_ORIGINS" env-separator:"," yaml:"corsOrigins"`
		// PprofEnabled mounts the profiling endpoints under /debug/pprof
		PprofEnabled bool `env:"AGENT_PPROF_ENABLED" env-default:"false" yaml:"pprofEnabled"`
		// SessionTTL ends conversations without a message for this long
		SessionTTL time.Duration `env:"AGENT_SESSION_TTL" env-default:"30m" yaml:"sessionTtl"`
	} `yaml:"agent"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the optional .env files, then the yaml file at configPath when
// it exists, and finally the environment. Environment variables win.
func Load(configPath string) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not stat config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from environment: %w", err)
	}

	return &cfg, nil
}

// RequireAPIKey fails when no scanning service key is configured.
func (c *Config) RequireAPIKey() error {
	if c.SolidityScan.APIKey == "" {
		return serrors.With(serrors.ErrValidation, "SOLIDITYSCAN_API_KEY environment variable not set")
	}

	return nil
}

// RequireAgentKey fails when no agent bearer token is configured.
func (c *Config) RequireAgentKey() error {
	if c.Agent.APIKey == "" {
		return serrors.With(serrors.ErrValidation, "AGENT_API_KEY environment variable not set")
	}

	return nil
}

// MaskKey keeps the first and, for keys longer than eight characters, the
// last four characters of key.
func MaskKey(key string) string {
	head := key
	if len(head) > 4 {
		head = head[:4]
	}
	tail := ""
	if len(key) > 8 {
		tail = key[len(key)-4:]
	}

	return head + "..." + tail
}
