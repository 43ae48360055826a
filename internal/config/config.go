package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every runtime knob the service consumes. Guardrail values
// are configuration inputs, not code constants.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	// Kill switch: set GENERATION_ENABLED=false to reject all generation
	// requests before any other check.
	GenerationEnabled bool `env:"GENERATION_ENABLED" envDefault:"true"`

	RateLimitPerClient     int           `env:"RATE_LIMIT_PER_CLIENT"     envDefault:"10"`
	RateLimitWindow        time.Duration `env:"RATE_LIMIT_WINDOW"         envDefault:"10m"`
	RateLimitGlobalDaily   int           `env:"RATE_LIMIT_GLOBAL_DAILY"   envDefault:"500"`
	RateLimitSweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"1m"`

	// Empty path keeps rate buckets in process memory; a path switches to
	// the sqlite-backed store.
	RateLimitStorePath string `env:"RATE_LIMIT_STORE_PATH"`

	MaxInputChars  int `env:"MAX_INPUT_CHARS"  envDefault:"20000"`
	MaxOutputChars int `env:"MAX_OUTPUT_CHARS" envDefault:"30000"`

	Provider        string        `env:"LLM_PROVIDER"     envDefault:"openai"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIModel     string        `env:"OPENAI_MODEL"     envDefault:"gpt-5-mini-2025-08-07"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"25s"`

	TelemetryEnabled bool   `env:"TELEMETRY_ENABLED" envDefault:"true"`
	TelemetrySalt    string `env:"TELEMETRY_SALT"    envDefault:"updategen-telemetry-v1"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
