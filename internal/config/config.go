package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "pharmacy"

type (
	Config struct {
		AppHost  string `split_words:"true" default:"0.0.0.0"`
		AppPort  int    `split_words:"true" default:"8080"`
		LogLevel string `split_words:"true" default:"info"`

		Redis   Redis
		Hours   Hours
		Display Display
	}

	// Redis - kosongkan Addr untuk mematikan publish event
	Redis struct {
		Addr     string
		Password string
		DB       int    `default:"0"`
		Channel  string `default:"pharmacy:queue"`
	}

	// Hours - jam buka loket, format "HH:MM" atau "HH:MM:SS".
	// Env: PHARMACY_HOURS_OPEN_AT, PHARMACY_HOURS_CLOSE_AT, PHARMACY_HOURS_TIMEZONE
	Hours struct {
		OpenAt   string `split_words:"true"`
		CloseAt  string `split_words:"true"`
		Timezone string `default:"Local"`
	}

	Display struct {
		BroadcastDelay time.Duration `split_words:"true" default:"50ms"`
	}
)

// Load - baca .env (kalau ada) lalu isi Config dari env PHARMACY_*
func Load() (*Config, error) {
	LoadEnv()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "config : failed to process env")
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

func (h Hours) Enabled() bool {
	return h.OpenAt != "" && h.CloseAt != ""
}
