package calibration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/metrics"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

// StageResult is the diagnostic outcome of one stage.
type StageResult struct {
	Stage    string
	BestRMSE float64
	Evals    int
	Log      []EvalRecord
}

// Result is the outcome of a full staged calibration run.
type Result struct {
	// Params is the final merged parameter estimate.
	Params sim.Params

	// Stages holds per-stage diagnostics in execution order.
	Stages []StageResult
}

// Controller runs the staged calibration: per stage it generates the
// ground truth under the reference parameters, searches the stage's free
// parameters with the rest fixed to the accumulated estimate, and merges
// the winning values forward. Transitions are unconditional; the per-stage
// budget is the only termination criterion.
type Controller struct {
	// TrueParams are the reference parameters being identified. They are
	// used only to generate ground-truth trajectories and are never
	// visible to the optimizer.
	TrueParams sim.Params

	// InitialGuess is the starting estimate the first stage fixes its
	// non-free parameters to.
	InitialGuess sim.Params

	// Stages execute strictly in order.
	Stages []Stage

	// Minimizer searches each stage's space.
	Minimizer optimization.Minimizer

	// Seed makes the whole run reproducible.
	Seed int64

	// Logger and Recorder are diagnostics; nil disables them.
	Logger   *zap.Logger
	Recorder metrics.Recorder
}

// Run executes all stages in sequence and returns the final calibrated
// parameters with per-stage diagnostics.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	if c.Minimizer == nil {
		return nil, fmt.Errorf("calibration: minimizer is required")
	}
	if len(c.Stages) == 0 {
		return nil, fmt.Errorf("calibration: no stages configured")
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("calibration")
	recorder := c.Recorder
	if recorder == nil {
		recorder = metrics.Noop{}
	}

	best := c.InitialGuess.Clone()
	result := &Result{Stages: make([]StageResult, 0, len(c.Stages))}

	for _, stage := range c.Stages {
		logger.Info("stage starting",
			zap.String("stage", stage.Name),
			zap.Strings("free", stage.FreeNames),
			zap.Int("budget", stage.Budget),
		)

		groundTruth, err := sim.Simulate(c.TrueParams, stage.Scenario.Steps, stage.Scenario.Impulses)
		if err != nil {
			return nil, fmt.Errorf("calibration: %s ground truth: %w", stage.Name, err)
		}

		// Fix everything the stage does not search over.
		fixed := best.Clone()
		for _, name := range stage.FreeNames {
			delete(fixed, name)
		}

		objective := NewObjective(stage.Name, fixed, stage.FreeNames, groundTruth, stage.Scenario, c.Logger, recorder)

		cfg := optimization.Config{
			Objective:           objective.Func(),
			Bounds:              stage.Bounds,
			MaxEvals:            stage.Budget,
			ExplorationFraction: stage.ExplorationFraction,
			Seed:                c.Seed,
		}
		if stage.WarmStart {
			cfg.WarmStart = make([]float64, len(stage.FreeNames))
			for i, name := range stage.FreeNames {
				cfg.WarmStart[i] = best[name]
			}
		}

		optResult, err := c.Minimizer.Minimize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("calibration: %s: %w", stage.Name, err)
		}
		if got, want := len(optResult.Best.Point), len(stage.FreeNames); got != want {
			return nil, fmt.Errorf("calibration: %s returned %d values for %d free parameters", stage.Name, got, want)
		}

		for i, name := range stage.FreeNames {
			best[name] = optResult.Best.Point[i]
		}
		recorder.SetBestRMSE(stage.Name, optResult.Best.Value)

		logger.Info("stage complete",
			zap.String("stage", stage.Name),
			zap.String("best", best.String()),
			zap.Float64("best_rmse", optResult.Best.Value),
			zap.Int("evals", objective.Calls()),
		)

		result.Stages = append(result.Stages, StageResult{
			Stage:    stage.Name,
			BestRMSE: optResult.Best.Value,
			Evals:    objective.Calls(),
			Log:      objective.Log(),
		})
	}

	result.Params = best
	return result, nil
}
