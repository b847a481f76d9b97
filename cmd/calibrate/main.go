// Command calibrate identifies the simulator's physical parameters
// (friction, elasticity, mass) from observed trajectories via staged
// black-box optimization, then reports a parameter comparison table and a
// trajectory comparison plot.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/calibration"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/config"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/logging"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/metrics"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization/bayesian"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/report"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(&logging.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	appLogger := logger.WithFields(map[string]interface{}{
		"service": "causal-oracle-calibrate",
	})

	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize core logger: %v\n", err)
		return 1
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder metrics.Recorder = metrics.Noop{}
	if cfg.MetricsAddr != "" {
		prom := metrics.NewPrometheus()
		recorder = prom

		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: prom.Handler(logger)}
		go func() {
			appLogger.Info("Starting diagnostics listener", map[string]interface{}{
				"address": cfg.MetricsAddr,
			})
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Diagnostics listener failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	truth := sim.Params{
		sim.ParamFriction:   cfg.Reference.Friction,
		sim.ParamElasticity: cfg.Reference.Elasticity,
		sim.ParamMass:       cfg.Reference.Mass,
	}
	guess := sim.Params{
		sim.ParamFriction:   cfg.InitialGuess.Friction,
		sim.ParamElasticity: cfg.InitialGuess.Elasticity,
		sim.ParamMass:       cfg.InitialGuess.Mass,
	}

	controller := &calibration.Controller{
		TrueParams:   truth,
		InitialGuess: guess,
		Stages:       calibration.DefaultStages(),
		Minimizer:    bayesian.New(zapLogger),
		Seed:         cfg.Calibration.Seed,
		Logger:       zapLogger,
		Recorder:     recorder,
	}

	appLogger.Info("Starting staged calibration", map[string]interface{}{
		"seed": cfg.Calibration.Seed,
	})
	result, err := controller.Run(ctx)
	if err != nil {
		appLogger.Error("Calibration failed", map[string]interface{}{"error": err.Error()})
		return 1
	}

	fmt.Println("\n--- Definitive Calibration Results ---")
	fmt.Println("\nComparison of Parameters:")
	if err := report.WriteParamTable(os.Stdout, truth, result.Params); err != nil {
		appLogger.Error("Failed to write parameter table", map[string]interface{}{"error": err.Error()})
		return 1
	}

	// Re-simulate all three trajectories under the refine scenario for the
	// comparison artifact.
	refine := calibration.DefaultStages()[len(calibration.DefaultStages())-1].Scenario
	if err := writePlot(cfg.Calibration.PlotPath, refine, truth, guess, result.Params); err != nil {
		appLogger.Error("Failed to render comparison plot", map[string]interface{}{"error": err.Error()})
		return 1
	}
	fmt.Printf("\nPlot saved to %s\n", cfg.Calibration.PlotPath)

	appLogger.Info("Calibration complete", map[string]interface{}{
		"calibrated": result.Params.String(),
	})
	return 0
}

func writePlot(path string, scenario sim.Scenario, truth, guess, calibrated sim.Params) error {
	groundTruth, err := sim.Simulate(truth, scenario.Steps, scenario.Impulses)
	if err != nil {
		return err
	}
	initial, err := sim.Simulate(guess, scenario.Steps, scenario.Impulses)
	if err != nil {
		return err
	}
	final, err := sim.Simulate(calibrated, scenario.Steps, scenario.Impulses)
	if err != nil {
		return err
	}
	return report.Plot(path, groundTruth, initial, final)
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Environment == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
