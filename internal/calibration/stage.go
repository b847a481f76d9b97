package calibration

import (
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

// Stage is one sequential phase of calibration: a forcing scenario, the
// parameters left free under it, and the optimizer budget spent on it.
// Parameters not named free are fixed to the accumulated best estimate.
type Stage struct {
	Name     string
	Scenario sim.Scenario

	// FreeNames are the parameters the stage searches over, in the order
	// the search-space dimensions unpack into them.
	FreeNames []string

	// Bounds is the stage's search space, aligned with FreeNames.
	Bounds []optimization.Bound

	// Budget is the stage's objective evaluation budget.
	Budget int

	// ExplorationFraction is the share of the budget spent on unbiased
	// sampling; zero means the optimizer default.
	ExplorationFraction float64

	// WarmStart seeds the optimizer with the accumulated best estimate
	// for the free parameters.
	WarmStart bool
}

// Canonical experiment design: a vertical-only bounce isolates
// restitution and mass (vertical motion is friction-blind), a horizontal
// slide then isolates friction, and a long mixed scenario refines all
// three parameters jointly from the basin the first two stages found.
func DefaultStages() []Stage {
	return []Stage{
		{
			Name: "Stage A (Bounce)",
			Scenario: sim.Scenario{
				Steps:    300,
				Impulses: []sim.Impulse{{Step: 0, J: sim.Vec{X: 0, Y: 8000}}},
			},
			FreeNames: []string{sim.ParamElasticity, sim.ParamMass},
			Bounds: []optimization.Bound{
				{Name: sim.ParamElasticity, Min: 0.1, Max: 1.0},
				{Name: sim.ParamMass, Min: 5.0, Max: 25.0},
			},
			Budget:              50,
			ExplorationFraction: 0.5,
		},
		{
			Name: "Stage B (Slide)",
			Scenario: sim.Scenario{
				Steps:    300,
				Impulses: []sim.Impulse{{Step: 0, J: sim.Vec{X: 30000, Y: 0}}},
			},
			FreeNames: []string{sim.ParamFriction},
			Bounds: []optimization.Bound{
				{Name: sim.ParamFriction, Min: 0.1, Max: 1.0},
			},
			Budget:              30,
			ExplorationFraction: 0.5,
		},
		{
			Name: "Stage C (Refine)",
			Scenario: sim.Scenario{
				Steps: 500,
				Impulses: []sim.Impulse{
					{Step: 0, J: sim.Vec{X: 8000, Y: 8000}},
					{Step: 300, J: sim.Vec{X: 25000, Y: 0}},
				},
			},
			FreeNames: []string{sim.ParamFriction, sim.ParamElasticity, sim.ParamMass},
			Bounds: []optimization.Bound{
				{Name: sim.ParamFriction, Min: 0.1, Max: 1.0},
				{Name: sim.ParamElasticity, Min: 0.1, Max: 1.0},
				{Name: sim.ParamMass, Min: 5.0, Max: 25.0},
			},
			Budget:              70,
			ExplorationFraction: 0.5,
			WarmStart:           true,
		},
	}
}
