package discover

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// renderEquations formats each output column of xi as a right-hand side over
// the named candidate functions, eliding exact zeros.
func renderEquations(xi *mat.Dense, names []string) []string {
	features, outputs := xi.Dims()
	eqs := make([]string, outputs)

	for j := 0; j < outputs; j++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "dx%d/dt =", j+1)
		terms := 0
		for i := 0; i < features; i++ {
			w := xi.At(i, j)
			if w == 0 {
				continue
			}
			if terms == 0 {
				if w < 0 {
					sb.WriteString(" -")
				} else {
					sb.WriteString(" ")
				}
			} else if w < 0 {
				sb.WriteString(" - ")
			} else {
				sb.WriteString(" + ")
			}
			mag := w
			if mag < 0 {
				mag = -mag
			}
			if i < len(names) && names[i] == "1" {
				fmt.Fprintf(&sb, "%.4g", mag)
			} else {
				fmt.Fprintf(&sb, "%.4g*%s", mag, names[i])
			}
			terms++
		}
		if terms == 0 {
			sb.WriteString(" 0")
		}
		eqs[j] = sb.String()
	}
	return eqs
}
