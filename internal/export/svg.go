package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/polytrope/internal/analysis"
)

// Series is one curve of a plot.
type Series struct {
	Label  string
	Stroke string
	Points []analysis.Point
}

// ProfileSVG draws a single curve.
func ProfileSVG(points []analysis.Point, width, height int, stroke string) string {
	return PlotSVG([]Series{{Stroke: stroke, Points: points}}, width, height)
}

// PlotSVG draws every series on shared axes. Series with fewer than two
// points are skipped; if none remain the result is empty.
func PlotSVG(series []Series, width, height int) string {
	var drawn []Series
	for _, s := range series {
		if len(s.Points) >= 2 {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := drawn[0].Points[0].X, drawn[0].Points[0].X
	minY, maxY := drawn[0].Points[0].Y, drawn[0].Points[0].Y
	for _, s := range drawn {
		for _, p := range s.Points {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height)

	for _, s := range drawn {
		stroke := s.Stroke
		if stroke == "" {
			stroke = "#1f77b4"
		}
		sb.WriteString(`<path fill="none" stroke="`)
		sb.WriteString(html.EscapeString(stroke))
		sb.WriteString(`" stroke-width="1.5"`)
		if s.Label != "" {
			fmt.Fprintf(&sb, ` data-label="%s"`, html.EscapeString(s.Label))
		}
		sb.WriteString(` d="M`)
		for i, p := range s.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// Gradient returns a colour between deep purple (t = 0) and yellow (t = 1),
// for colouring a family of curves by index.
func Gradient(t float64) string {
	t = max(0, min(1, t))
	lo := [3]float64{0x44, 0x01, 0x54}
	hi := [3]float64{0xfd, 0xe7, 0x25}
	var c [3]int
	for i := range c {
		c[i] = int(lo[i] + (hi[i]-lo[i])*t + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
