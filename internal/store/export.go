package store

import (
	"encoding/json"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/discover"
)

// ExportData is the uncompressed JSON view of a run, for downstream tooling.
type ExportData struct {
	Model        string      `json:"model"`
	Threshold    float64     `json:"threshold"`
	Iterations   int         `json:"iterations"`
	Converged    bool        `json:"converged"`
	Equations    []string    `json:"equations"`
	FeatureNames []string    `json:"feature_names"`
	Coefficients [][]float64 `json:"coefficients"`
}

// ExportJSON writes a run's model summary to a file.
func ExportJSON(path, model string, result *discover.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(model, result))
}

// ExportJSONStdout writes a run's model summary to standard output.
func ExportJSONStdout(model string, result *discover.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(model, result))
}

func exportData(model string, result *discover.Result) ExportData {
	return ExportData{
		Model:        model,
		Threshold:    result.Threshold,
		Iterations:   result.Iterations,
		Converged:    result.Converged,
		Equations:    result.Equations(),
		FeatureNames: resultNames(result),
		Coefficients: matrixRows(result.Coefficients),
	}
}

func resultNames(result *discover.Result) []string {
	vars, _ := result.States.Dims()
	return result.Basis.Names(vars)
}

func matrixRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		copy(out[i], m.RawRowView(i))
	}
	return out
}
