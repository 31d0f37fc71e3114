package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sindy/internal/discover"
)

// RenderResult formats a discovery result for the terminal: discovered
// equations plus convergence metadata.
func RenderResult(model string, result *discover.Result) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(fmt.Sprintf("discovered dynamics: %s", model)))
	sb.WriteString("\n")

	for _, eq := range result.Equations() {
		sb.WriteString("  ")
		sb.WriteString(EquationStyle.Render(eq))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("threshold"))
	sb.WriteString(ValueStyle.Render(fmt.Sprintf("%.4g", result.Threshold)))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("iterations"))
	sb.WriteString(ValueStyle.Render(fmt.Sprintf("%d", result.Iterations)))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("converged"))
	if result.Converged {
		sb.WriteString(ConvergedStyle.Render("yes"))
	} else {
		sb.WriteString(DivergedStyle.Render("no (iteration budget exhausted)"))
	}
	sb.WriteString("\n")
	return sb.String()
}

// PlotTradeoff draws the per-threshold residual curve of a sweep so the
// sparsity/error trade-off is visible at a glance.
func PlotTradeoff(thresholds, residuals []float64, width, height int) string {
	if len(residuals) == 0 {
		return ""
	}
	graph := asciigraph.Plot(residuals,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("residual vs threshold [%.3g .. %.3g]",
			thresholds[0], thresholds[len(thresholds)-1])),
	)
	return graphStyle.Render(graph)
}
