package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

func bounceObjective(t *testing.T) *Objective {
	t.Helper()
	scenario := sim.Scenario{
		Steps:    100,
		Impulses: []sim.Impulse{{Step: 0, J: sim.Vec{Y: 8000}}},
	}
	truth := sim.Params{sim.ParamFriction: 0.7, sim.ParamElasticity: 0.9, sim.ParamMass: 12.0}
	gt, err := sim.Simulate(truth, scenario.Steps, scenario.Impulses)
	require.NoError(t, err)

	return NewObjective("test",
		sim.Params{sim.ParamFriction: 0.5},
		[]string{sim.ParamElasticity, sim.ParamMass},
		gt, scenario, nil, nil)
}

func TestObjectiveFreeValueCountMismatch(t *testing.T) {
	obj := bounceObjective(t)

	_, err := obj.Evaluate([]float64{0.9})
	assert.Error(t, err, "one value for two free parameters must fail")
	_, err = obj.Evaluate([]float64{0.9, 12.0, 1.0})
	assert.Error(t, err, "three values for two free parameters must fail")
	assert.Zero(t, obj.Calls(), "failed calls must not count")
}

func TestObjectiveZeroAtTruth(t *testing.T) {
	obj := bounceObjective(t)

	// Friction is fixed to a wrong value, but a bounce is vertical-only,
	// so the true elasticity and mass must still reproduce the ground
	// truth exactly.
	rmse, err := obj.Evaluate([]float64{0.9, 12.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, rmse, 1e-9)
}

func TestObjectiveDeterministic(t *testing.T) {
	obj := bounceObjective(t)

	a, err := obj.Evaluate([]float64{0.6, 14.0})
	require.NoError(t, err)
	b, err := obj.Evaluate([]float64{0.6, 14.0})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestObjectiveLogAndCounter(t *testing.T) {
	obj := bounceObjective(t)

	_, err := obj.Evaluate([]float64{0.5, 10.0})
	require.NoError(t, err)
	_, err = obj.Evaluate([]float64{0.8, 20.0})
	require.NoError(t, err)

	assert.Equal(t, 2, obj.Calls())
	log := obj.Log()
	require.Len(t, log, 2)
	assert.Equal(t, 1, log[0].Call)
	assert.Equal(t, 2, log[1].Call)
	assert.Equal(t, 0.5, log[0].Params[sim.ParamElasticity])
	assert.Equal(t, 20.0, log[1].Params[sim.ParamMass])
	// The fixed friction must appear in the merged parameters.
	assert.Equal(t, 0.5, log[0].Params[sim.ParamFriction])
}
