package calibration

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/metrics"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

// EvalRecord is one objective evaluation, kept in call order for
// diagnostics and reporting.
type EvalRecord struct {
	Call   int
	Params sim.Params
	RMSE   float64
}

// Objective binds a fixed parameter subset, an ordered free subset, a
// ground-truth trajectory and a forcing scenario into a scalar function
// of the free values. Aside from its call counter and evaluation log it
// is a pure function: identical free values produce identical RMSE.
type Objective struct {
	stage       string
	fixed       sim.Params
	freeNames   []string
	groundTruth sim.Trajectory
	scenario    sim.Scenario

	logger   *zap.Logger
	recorder metrics.Recorder

	calls int
	log   []EvalRecord
}

// NewObjective builds an Objective. fixed is copied; a nil logger or
// recorder disables the respective diagnostics.
func NewObjective(stage string, fixed sim.Params, freeNames []string, groundTruth sim.Trajectory, scenario sim.Scenario, logger *zap.Logger, recorder metrics.Recorder) *Objective {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Objective{
		stage:       stage,
		fixed:       fixed.Clone(),
		freeNames:   append([]string(nil), freeNames...),
		groundTruth: groundTruth,
		scenario:    scenario,
		logger:      logger.Named("calibration"),
		recorder:    recorder,
	}
}

// Evaluate merges the free values over the fixed parameters, simulates the
// scenario and returns the RMSE against the ground truth. A free-value
// count differing from the free-name count is a programming error and
// fails immediately.
func (o *Objective) Evaluate(free []float64) (float64, error) {
	if len(free) != len(o.freeNames) {
		return 0, fmt.Errorf("calibration: got %d free values for %d free parameters", len(free), len(o.freeNames))
	}

	params := o.fixed.Clone()
	for i, name := range o.freeNames {
		params[name] = free[i]
	}

	traj, err := sim.Simulate(params, o.scenario.Steps, o.scenario.Impulses)
	if err != nil {
		return 0, err
	}
	rmse := RMSE(o.groundTruth, traj)

	o.calls++
	o.log = append(o.log, EvalRecord{Call: o.calls, Params: params, RMSE: rmse})
	o.recorder.IncEvaluations(o.stage)
	o.logger.Info("guess evaluated",
		zap.String("stage", o.stage),
		zap.Int("call", o.calls),
		zap.String("params", params.String()),
		zap.Float64("rmse", rmse),
	)

	return rmse, nil
}

// Func adapts the objective to the optimizer contract.
func (o *Objective) Func() optimization.ObjectiveFunction {
	return o.Evaluate
}

// Calls returns how many times the objective has been evaluated.
func (o *Objective) Calls() int { return o.calls }

// Log returns the evaluations in call order.
func (o *Objective) Log() []EvalRecord { return o.log }
