// Package export renders recorded runs as standalone SVG images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/phaselab/phaselab/internal/section"
)

const background = "#0a0a0a"

// PortraitSVG renders a trajectory as one stroked path. Non-finite
// samples break the path into separate segments.
func PortraitSVG(xs, ys []float64, width, height int, stroke string) string {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 2 {
		return ""
	}

	minX, maxX, minY, maxY, ok := padBounds(xs[:n], ys[:n])
	if !ok {
		return ""
	}
	rangeX := maxX - minX
	rangeY := maxY - minY

	var d strings.Builder
	move := true
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		if !finite(x) || !finite(y) {
			move = true
			continue
		}
		px := (x - minX) / rangeX * float64(width)
		py := float64(height) - (y-minY)/rangeY*float64(height)
		if move {
			fmt.Fprintf(&d, "M%.1f %.1f", px, py)
			move = false
		} else {
			fmt.Fprintf(&d, " L%.1f %.1f", px, py)
		}
	}

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", stroke, d.String())
	sb.WriteString("</svg>")
	return sb.String()
}

// SectionSVG renders section samples as dots.
func SectionSVG(points []section.Point, width, height int, fill string) string {
	if len(points) == 0 {
		return ""
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	minX, maxX, minY, maxY, ok := padBounds(xs, ys)
	if !ok {
		return ""
	}
	rangeX := maxX - minX
	rangeY := maxY - minY

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		cx := (xs[i] - minX) / rangeX * float64(width)
		cy := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\"/>\n", cx, cy)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// padBounds computes data bounds with a 10% margin. It reports false
// when no finite point exists.
func padBounds(xs, ys []float64) (minX, maxX, minY, maxY float64, ok bool) {
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		if !ok {
			minX, maxX, minY, maxY = xs[i], xs[i], ys[i], ys[i]
			ok = true
			continue
		}
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}
	if !ok {
		return 0, 0, 0, 0, false
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
	return minX, maxX, minY, maxY, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
