// Package report renders calibration outcomes: the trajectory comparison
// artifact and the parameter table. Pure output; nothing feeds back into
// calibration.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

// Plot writes a comparison of the ground-truth, initial-guess and
// calibrated trajectories to path. The parent directory is created if
// needed; I/O failures are returned to the caller.
func Plot(path string, groundTruth, initialGuess, calibrated sim.Trajectory) error {
	p := plot.New()
	p.Title.Text = "Causal Oracle Calibration Results"
	p.X.Label.Text = "X Position"
	p.Y.Label.Text = "Y Position"
	p.Add(plotter.NewGrid())

	lines := []struct {
		name   string
		traj   sim.Trajectory
		color  color.RGBA
		dashes []vg.Length
		width  vg.Length
	}{
		{"Ground Truth Trajectory", groundTruth, color.RGBA{G: 160, A: 255}, nil, 3},
		{"Initial Guess Trajectory", initialGuess, color.RGBA{R: 200, A: 255}, []vg.Length{6, 3}, 1.5},
		{"Calibrated Trajectory", calibrated, color.RGBA{B: 200, A: 255}, []vg.Length{2, 2}, 1.5},
	}

	for _, l := range lines {
		line, err := plotter.NewLine(toXYs(l.traj))
		if err != nil {
			return fmt.Errorf("report: %s: %w", l.name, err)
		}
		line.Color = l.color
		line.Width = l.width
		line.Dashes = l.dashes
		p.Add(line)
		p.Legend.Add(l.name, line)
	}
	p.Legend.Top = true

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create output dir: %w", err)
		}
	}
	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save plot: %w", err)
	}
	return nil
}

func toXYs(t sim.Trajectory) plotter.XYs {
	xys := make(plotter.XYs, len(t))
	for i, v := range t {
		xys[i].X = v.X
		xys[i].Y = v.Y
	}
	return xys
}
