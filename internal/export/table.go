package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/polytrope/internal/analysis"
)

var latexColumns = []string{
	`$n$`,
	`$\xi_1$`,
	`exp.`,
	`$-\theta_n'(\xi_1)$`,
	`exp.`,
	`$\rho_c / \langle\rho\rangle$`,
	`exp.`,
}

const latexCaption = `Surface radius, surface gradient and central
condensation of polytropes. Each exp. column gives the tabulated value
for the column before it.`

func sig(v float64, digits int) string {
	return strconv.FormatFloat(v, 'g', digits, 64)
}

// LatexTable writes summaries as a LaTeX table, next to the tabulated
// values where they exist.
func LatexTable(w io.Writer, rows []analysis.Summary) error {
	var sb strings.Builder
	sb.WriteString("\\begin{table}[ht]\n\\centering\n\\begin{tabular}{ccccccc}\n\\hline\n")
	sb.WriteString(strings.Join(latexColumns, " & "))
	sb.WriteString(" \\\\\n\\hline\n")

	for _, r := range rows {
		cells := []string{sig(r.N, 3), "-", "-", "-", "-", "-", "-"}
		if r.Crossed {
			cells[1], cells[3], cells[5] = sig(r.XI1, 5), sig(r.ThetaPrime, 5), sig(r.DensityRatio, 5)
		}
		if ref, err := analysis.ReferenceFor(r.N); err == nil {
			cells[2], cells[4], cells[6] = sig(ref.XI1, 5), sig(ref.ThetaPrime, 5), sig(ref.DensityRatio, 5)
		}
		sb.WriteString(strings.Join(cells, " & "))
		sb.WriteString(" \\\\\n")
	}

	sb.WriteString("\\hline\n\\end{tabular}\n")
	fmt.Fprintf(&sb, "\\caption{%s}\n\\label{tab:polytropes}\n\\end{table}\n", latexCaption)

	_, err := io.WriteString(w, sb.String())
	return err
}
