package report

import (
	"fmt"
	"io"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/sim"
)

// WriteParamTable writes the true-vs-calibrated parameter comparison.
func WriteParamTable(w io.Writer, truth, calibrated sim.Params) error {
	rows := []struct {
		label  string
		params sim.Params
	}{
		{"True Values", truth},
		{"Calibrated Values", calibrated},
	}

	if _, err := fmt.Fprintf(w, "%-19s| Friction | Elasticity | Mass\n", ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-------------------|----------|------------|-------"); err != nil {
		return err
	}
	for _, row := range rows {
		_, err := fmt.Fprintf(w, "%-19s| %.4f   | %.4f     | %.2f\n",
			row.label, row.params.Friction(), row.params.Elasticity(), row.params.Mass())
		if err != nil {
			return err
		}
	}
	return nil
}
