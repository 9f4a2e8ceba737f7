package analysis

import (
	"strings"

	"github.com/san-kum/polytrope/internal/emden"
)

// Point is one sample in a 2D plot.
type Point struct{ X, Y float64 }

// PhasePortrait holds the (y, z) path of a trajectory, thinned to at most
// a fixed number of points.
type PhasePortrait struct {
	N      float64
	Points []Point
}

// NewPhasePortrait samples the (y, z) plane of traj, keeping at most
// maxPoints evenly spaced samples. The last point is always kept.
func NewPhasePortrait(traj *emden.Trajectory, maxPoints int) *PhasePortrait {
	total := traj.Len()
	if total == 0 || maxPoints <= 0 {
		return &PhasePortrait{N: traj.N}
	}
	stride := 1
	if total > maxPoints {
		stride = (total + maxPoints - 1) / maxPoints
	}

	p := &PhasePortrait{N: traj.N, Points: make([]Point, 0, total/stride+1)}
	for i := 0; i < total; i += stride {
		p.Points = append(p.Points, Point{X: traj.Y[i], Y: traj.Z[i]})
	}
	if (total-1)%stride != 0 {
		p.Points = append(p.Points, Point{X: traj.Y[total-1], Y: traj.Z[total-1]})
	}
	return p
}

// PhasePortraitToASCII renders the portrait on a width x height canvas.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
