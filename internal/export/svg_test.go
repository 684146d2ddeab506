package export

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phaselab/phaselab/internal/section"
)

func TestPortraitSVG_PathSpansPaddedBounds(t *testing.T) {
	svg := PortraitSVG([]float64{0, 1}, []float64{0, 1}, 100, 100, "#ff5f87")

	assert.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"`)
	assert.Contains(t, svg, `fill="#0a0a0a"`)
	assert.Contains(t, svg, `stroke="#ff5f87"`)
	// 10% padding maps the data corners to 1/12 and 11/12 of the image.
	assert.Contains(t, svg, "M8.3 91.7")
	assert.Contains(t, svg, " L91.7 8.3")
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestPortraitSVG_TooFewPoints(t *testing.T) {
	assert.Empty(t, PortraitSVG(nil, nil, 100, 100, "#fff"))
	assert.Empty(t, PortraitSVG([]float64{1}, []float64{2}, 100, 100, "#fff"))
}

func TestPortraitSVG_NaNSplitsPath(t *testing.T) {
	nan := math.NaN()
	svg := PortraitSVG([]float64{0, nan, 1}, []float64{0, 0, 1}, 100, 100, "#fff")

	assert.Equal(t, 2, strings.Count(svg, "M"), "the path should restart after the gap")
	assert.Zero(t, strings.Count(svg, "L"))
}

func TestPortraitSVG_NoFiniteData(t *testing.T) {
	nan := math.NaN()
	assert.Empty(t, PortraitSVG([]float64{nan, nan}, []float64{1, 2}, 100, 100, "#fff"))
}

func TestPortraitSVG_ConstantSeriesCentered(t *testing.T) {
	svg := PortraitSVG([]float64{5, 5}, []float64{3, 3}, 100, 100, "#fff")

	assert.Contains(t, svg, "M50.0 50.0")
}

func TestSectionSVG_OneCirclePerPoint(t *testing.T) {
	pts := []section.Point{
		{X: 0, Y: 0, T: 1},
		{X: 1, Y: 2, T: 2},
		{X: -1, Y: 0.5, T: 3},
	}
	svg := SectionSVG(pts, 200, 150, "#87d7ff")

	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, `fill="#87d7ff"`)
	assert.Contains(t, svg, `viewBox="0 0 200 150"`)
}

func TestSectionSVG_Empty(t *testing.T) {
	assert.Empty(t, SectionSVG(nil, 100, 100, "#fff"))
}
