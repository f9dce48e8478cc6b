package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (ZAIQA_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string        `usage:"PostgreSQL connection URL (ZAIQA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	TaxRate      float64       `default:"0" usage:"Sales tax rate applied at checkout (e.g. 0.16)" flag:"tax-rate"`
	APIKeyPepper string        `usage:"HMAC pepper for API key hashing (ZAIQA_API_KEY_PEPPER)" flag:"api-key-pepper"`
	CartTTL      time.Duration `default:"2h" usage:"Idle time before a cart session is evicted" flag:"cart-ttl"`
	AI           AIConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// AIConfig points at an OpenAI-compatible chat completions gateway used for
// business insights. Insights are disabled when Endpoint is empty.
type AIConfig struct {
	Endpoint string        `usage:"Chat completions endpoint URL" flag:"ai-endpoint"`
	APIKey   string        `usage:"Gateway API key" flag:"ai-api-key"`
	Model    string        `default:"openai/gpt-5" usage:"Model identifier" flag:"ai-model"`
	Timeout  time.Duration `default:"30s" usage:"Per-request gateway timeout" flag:"ai-timeout"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ZAIQA",
		Files:     []string{"config.yaml", "/etc/zaiqa/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ZAIQA_DATABASE_URL or DATABASE_URL")
	}
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, errors.Errorf("tax rate %v out of range [0, 1)", cfg.TaxRate)
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's ZAIQA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
