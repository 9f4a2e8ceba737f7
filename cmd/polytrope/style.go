package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/san-kum/polytrope/internal/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func printTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func printField(w io.Writer, label string, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(value))
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func steps(n int) string {
	return humanize.Comma(int64(n))
}

func printSummary(w io.Writer, s analysis.Summary) {
	printField(w, "n", num(s.N))
	printField(w, "steps", steps(s.Steps))
	if !s.Crossed {
		fmt.Fprintln(w, warnStyle.Render("step limit reached before the surface; raise --max-iter"))
		return
	}
	printField(w, "xi_1", num(s.XI1))
	printField(w, "-theta'(xi_1)", num(s.ThetaPrime))
	printField(w, "rho_c/<rho>", num(s.DensityRatio))
}
