package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ViewerBufferSize int           `env:"VIEWER_BUFFER_SIZE,default=256" validate:"min=1"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	MonitorInterval  time.Duration `env:"MONITOR_INTERVAL,default=1s" validate:"gt=0"`
	LimitPackets     *int          `env:"LIMIT_PACKETS" validate:"omitempty,min=1"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	TeamName         string        `env:"TEAM_NAME,default=test_team" validate:"required,max=64,printascii"`
	DemoViewers      int           `env:"DEMO_VIEWERS,default=2" validate:"min=1,max=16"`
}

// InMemory reports whether the packet journal should live in memory only.
func (c Config) InMemory() bool {
	return c.BadgerFilepath == ""
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
