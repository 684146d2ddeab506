package viz

import (
	"fmt"
	"math"
)

// Plot rasterizes XY data onto a braille canvas. Bounds autoscale to
// the finite points unless fixed with SetBounds; non-finite points are
// skipped and break the line chain.
type Plot struct {
	width, height          int
	xs, ys                 []float64
	lines                  bool
	xmin, xmax, ymin, ymax float64
	fixed                  bool
}

func NewPlot(width, height int) *Plot {
	return &Plot{width: width, height: height}
}

// Lines connects consecutive points instead of plotting them loose.
func (p *Plot) Lines(on bool) *Plot {
	p.lines = on
	return p
}

func (p *Plot) SetBounds(xmin, xmax, ymin, ymax float64) *Plot {
	p.xmin, p.xmax, p.ymin, p.ymax = xmin, xmax, ymin, ymax
	p.fixed = true
	return p
}

func (p *Plot) Add(x, y float64) {
	p.xs = append(p.xs, x)
	p.ys = append(p.ys, y)
}

func (p *Plot) AddSeries(xs, ys []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	p.xs = append(p.xs, xs[:n]...)
	p.ys = append(p.ys, ys[:n]...)
}

func (p *Plot) Len() int { return len(p.xs) }

// Render returns the canvas followed by a one-line bounds footer.
func (p *Plot) Render() string {
	c := NewCanvas(p.width, p.height)
	xmin, xmax, ymin, ymax := p.bounds()

	pw, ph := c.PixelSize()
	sx := float64(pw-1) / (xmax - xmin)
	sy := float64(ph-1) / (ymax - ymin)

	prevOK := false
	var prevX, prevY int
	for i := range p.xs {
		x, y := p.xs[i], p.ys[i]
		if !finite(x) || !finite(y) || x < xmin || x > xmax || y < ymin || y > ymax {
			prevOK = false
			continue
		}
		cx := int(math.Round((x - xmin) * sx))
		cy := (ph - 1) - int(math.Round((y-ymin)*sy))
		if p.lines && prevOK {
			c.Line(prevX, prevY, cx, cy)
		} else {
			c.Set(cx, cy)
		}
		prevX, prevY = cx, cy
		prevOK = true
	}

	footer := fmt.Sprintf("x %.3g..%.3g  y %.3g..%.3g", xmin, xmax, ymin, ymax)
	return c.String() + footer
}

func (p *Plot) bounds() (xmin, xmax, ymin, ymax float64) {
	if p.fixed {
		return orderBounds(p.xmin, p.xmax, p.ymin, p.ymax)
	}

	found := false
	for i := range p.xs {
		x, y := p.xs[i], p.ys[i]
		if !finite(x) || !finite(y) {
			continue
		}
		if !found {
			xmin, xmax, ymin, ymax = x, x, y, y
			found = true
			continue
		}
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
		ymin = math.Min(ymin, y)
		ymax = math.Max(ymax, y)
	}
	if !found {
		return -1, 1, -1, 1
	}
	return orderBounds(xmin, xmax, ymin, ymax)
}

// orderBounds swaps inverted ranges and pads degenerate ones so the
// projection never divides by zero.
func orderBounds(xmin, xmax, ymin, ymax float64) (float64, float64, float64, float64) {
	if xmax < xmin {
		xmin, xmax = xmax, xmin
	}
	if ymax < ymin {
		ymin, ymax = ymax, ymin
	}
	if xmax-xmin == 0 {
		pad := math.Max(math.Abs(xmin)*0.05, 0.5)
		xmin, xmax = xmin-pad, xmax+pad
	}
	if ymax-ymin == 0 {
		pad := math.Max(math.Abs(ymin)*0.05, 0.5)
		ymin, ymax = ymin-pad, ymax+pad
	}
	return xmin, xmax, ymin, ymax
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
