// Package sim provides the deterministic 2D rigid-body simulation the
// calibration treats as a black box: one circular body over a static
// ground segment, driven by gravity and a schedule of discrete impulses.
package sim

import "fmt"

// Impulse is an instantaneous momentum change applied to the body at the
// step whose index equals Step.
type Impulse struct {
	Step int
	J    Vec
}

// Trajectory is the body's position after each simulation step.
type Trajectory []Vec

// Scenario bundles the forcing applied during a run: how many steps to
// advance and which impulses to deliver.
type Scenario struct {
	Steps    int
	Impulses []Impulse
}

// Simulate runs a fresh world under params for steps steps, applying each
// scheduled impulse to the body's center immediately before the step with
// the matching index. The returned trajectory has exactly steps entries,
// one position per step, recorded after the step's advance.
//
// Simulate is deterministic: identical arguments produce identical
// trajectories.
func Simulate(params Params, steps int, impulses []Impulse) (Trajectory, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("sim: steps must be positive, got %d", steps)
	}
	w, err := NewWorld(params)
	if err != nil {
		return nil, err
	}

	traj := make(Trajectory, 0, steps)
	for step := 0; step < steps; step++ {
		for _, imp := range impulses {
			if imp.Step == step {
				w.ApplyImpulse(imp.J)
			}
		}
		w.Step(Timestep)
		traj = append(traj, w.Position())
	}
	return traj, nil
}
