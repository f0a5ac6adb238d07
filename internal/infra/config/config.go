package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Width  int `env:"COLORBARS_WIDTH"  envDefault:"1920"`
	Height int `env:"COLORBARS_HEIGHT" envDefault:"1080"`

	OutputDir   string `env:"COLORBARS_OUTPUT_DIR"  envDefault:"."`
	Mode        string `env:"COLORBARS_MODE"        envDefault:"resize"`
	Orientation string `env:"COLORBARS_ORIENTATION" envDefault:"vertical"`
	Variants    bool   `env:"COLORBARS_VARIANTS"    envDefault:"false"`

	FFmpegPath  string `env:"COLORBARS_FFMPEG"  envDefault:"ffmpeg"`
	FFprobePath string `env:"COLORBARS_FFPROBE" envDefault:"ffprobe"`

	TimeoutSeconds int `env:"COLORBARS_TIMEOUT_SECONDS" envDefault:"0"`

	Force bool `env:"COLORBARS_FORCE" envDefault:"false"`
	Quiet bool `env:"COLORBARS_QUIET" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
