// Package config loads the calibration run configuration from the
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}

	// Reference describes the physical system being identified. It is
	// supplied at program start and never exposed to the optimizer.
	Reference struct {
		Friction   float64 `env:"REF_FRICTION" envDefault:"0.7"`
		Elasticity float64 `env:"REF_ELASTICITY" envDefault:"0.9"`
		Mass       float64 `env:"REF_MASS" envDefault:"12.0"`
	}

	// InitialGuess is the neutral starting estimate.
	InitialGuess struct {
		Friction   float64 `env:"GUESS_FRICTION" envDefault:"0.5"`
		Elasticity float64 `env:"GUESS_ELASTICITY" envDefault:"0.5"`
		Mass       float64 `env:"GUESS_MASS" envDefault:"15.0"`
	}

	Calibration struct {
		// Seed makes calibration runs reproducible.
		Seed int64 `env:"CAL_SEED" envDefault:"42"`
		// PlotPath is where the trajectory comparison artifact is written.
		PlotPath string `env:"CAL_PLOT_PATH" envDefault:"figures/trajectory_comparison.png"`
	}

	// MetricsAddr, when set, enables the diagnostics HTTP listener
	// (/metrics, /healthz) on that address.
	MetricsAddr string `env:"METRICS_ADDR" envDefault:""`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
