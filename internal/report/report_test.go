package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

func shortTrajectory() sim.Trajectory {
	t := make(sim.Trajectory, 30)
	for i := range t {
		t[i] = sim.Vec{X: float64(i), Y: 300 - float64(i)*2}
	}
	return t
}

func TestPlotWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figures", "comparison.png")

	traj := shortTrajectory()
	require.NoError(t, Plot(path, traj, traj, traj))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlotSurfacesIOErrors(t *testing.T) {
	// A path under a file (not a directory) cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	traj := shortTrajectory()
	err := Plot(filepath.Join(blocker, "out.png"), traj, traj, traj)
	assert.Error(t, err)
}

func TestWriteParamTable(t *testing.T) {
	truth := sim.Params{sim.ParamFriction: 0.7, sim.ParamElasticity: 0.9, sim.ParamMass: 12.0}
	calibrated := sim.Params{sim.ParamFriction: 0.6931, sim.ParamElasticity: 0.8874, sim.ParamMass: 12.31}

	var buf bytes.Buffer
	require.NoError(t, WriteParamTable(&buf, truth, calibrated))

	out := buf.String()
	assert.Contains(t, out, "True Values")
	assert.Contains(t, out, "Calibrated Values")
	assert.Contains(t, out, "0.7000")
	assert.Contains(t, out, "0.8874")
	assert.Contains(t, out, "12.31")
}
