package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP      HTTP
		Log       Log
		PG        PG
		Redis     Redis
		Stream    Stream
		Dispatch  Dispatch
		Reclaim   Reclaim
		Embedding Embedding
		Search    Search
		Metrics   Metrics
		Generator Generator
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR,required"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
	}

	Stream struct {
		Key           string        `env:"STREAM_KEY" envDefault:"stream:transactions"`
		Group         string        `env:"STREAM_GROUP" envDefault:"consumer-group:processor"`
		Consumer      string        `env:"STREAM_CONSUMER" envDefault:"processor-1"`
		BatchSize     int           `env:"STREAM_BATCH_SIZE" envDefault:"10"`
		BlockTimeout  time.Duration `env:"STREAM_BLOCK_TIMEOUT" envDefault:"1s"`
		DeadLetterKey string        `env:"STREAM_DEAD_LETTER_KEY" envDefault:"stream:transactions:dead"`
	}

	Dispatch struct {
		ApplyTimeout    time.Duration `env:"DISPATCH_APPLY_TIMEOUT" envDefault:"15s"` // full fan-out of one entry, embedding included
		RetryBackoff    time.Duration `env:"DISPATCH_RETRY_BACKOFF" envDefault:"2s"`
		ShutdownTimeout time.Duration `env:"DISPATCH_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Reclaim struct {
		Interval        time.Duration `env:"RECLAIM_INTERVAL" envDefault:"30s"`
		MinIdle         time.Duration `env:"RECLAIM_MIN_IDLE" envDefault:"1m"`
		MaxDeliveries   int64         `env:"RECLAIM_MAX_DELIVERIES" envDefault:"5"`
		BatchSize       int           `env:"RECLAIM_BATCH_SIZE" envDefault:"50"`
		ShutdownTimeout time.Duration `env:"RECLAIM_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Embedding struct {
		Endpoint  string        `env:"EMBEDDING_ENDPOINT,required"`
		Dimension int           `env:"EMBEDDING_DIMENSION" envDefault:"384"`
		Timeout   time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"10s"`
	}

	Search struct {
		MinSimilarity float64 `env:"SEARCH_MIN_SIMILARITY" envDefault:"0.5"`
		QueryHint     string  `env:"SEARCH_QUERY_HINT" envDefault:"transactions"`
	}

	Metrics struct {
		Port string `env:"METRICS_PORT" envDefault:"9090"`
	}

	Generator struct {
		Interval  time.Duration `env:"GENERATOR_INTERVAL" envDefault:"5s"`
		Customers int           `env:"GENERATOR_CUSTOMERS" envDefault:"100"`
		TimeStep  time.Duration `env:"GENERATOR_TIME_STEP" envDefault:"5h"`
	}
)

// GeneratorConfig is the subset the generator binary needs; it talks to the
// event log only.
type GeneratorConfig struct {
	Log       Log
	Redis     Redis
	Stream    Stream
	Generator Generator
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func NewGenerator() (*GeneratorConfig, error) {
	cfg := &GeneratorConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
