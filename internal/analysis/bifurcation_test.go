package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaselab/phaselab/internal/system"
)

// pitchforkParticles models x' = r*x - x^3, whose attractor moves from
// the origin to +-sqrt(r) as r crosses zero.
func pitchforkParticles() []system.Particle {
	return []system.Particle{
		{Name: "node", Vars: []system.Variable{
			{Name: "x", Order: 1, Initial: "0.5", Expr: "r * x - x^3"},
		}},
		{Name: "params", Vars: []system.Variable{
			{Name: "r", Order: 0, Expr: "0"},
		}},
	}
}

func TestSweep_Pitchfork(t *testing.T) {
	opts := SweepOptions{Min: -1, Max: 1, Steps: 3, Watch: "sys1_x", Dt: 0.01, Transient: 25, Record: 2}
	points, err := Sweep(pitchforkParticles(), "r", opts)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// r = -1: the origin is the only attractor.
	require.NotEmpty(t, points[0].Values)
	for _, v := range points[0].Values {
		assert.InDelta(t, 0.0, v, 0.01)
	}

	// r = +1: the positive branch captures x0 = 0.5.
	last := points[2]
	assert.Equal(t, 1.0, last.Param)
	require.NotEmpty(t, last.Values)
	for _, v := range last.Values {
		assert.InDelta(t, 1.0, v, 0.01)
	}
}

func TestSweep_QualifiedParamName(t *testing.T) {
	opts := SweepOptions{Min: 1, Max: 1, Steps: 2, Watch: "sys1_x", Dt: 0.01, Transient: 5, Record: 1}
	_, err := Sweep(pitchforkParticles(), "sys2_r", opts)
	assert.NoError(t, err)
}

func TestSweep_AlgebraicWatch(t *testing.T) {
	opts := SweepOptions{Min: 2, Max: 2, Steps: 2, Watch: "sys2_r", Dt: 0.01, Transient: 0.1, Record: 0.2}
	points, err := Sweep(pitchforkParticles(), "r", opts)
	require.NoError(t, err)
	for _, p := range points {
		require.NotEmpty(t, p.Values)
		assert.InDelta(t, 2.0, p.Values[0], 1e-12)
	}
}

func TestSweep_UnknownParam(t *testing.T) {
	_, err := Sweep(pitchforkParticles(), "q", DefaultSweepOptions())
	assert.ErrorContains(t, err, "no order-0 variable")
}

func TestSweep_UnknownWatch(t *testing.T) {
	opts := DefaultSweepOptions()
	opts.Watch = "sys9_q"
	_, err := Sweep(pitchforkParticles(), "r", opts)
	assert.ErrorContains(t, err, "unknown watch")
}

func TestSweep_DoesNotMutateInput(t *testing.T) {
	parts := pitchforkParticles()
	opts := SweepOptions{Min: -1, Max: 1, Steps: 2, Watch: "sys1_x", Dt: 0.01, Transient: 1, Record: 1}
	_, err := Sweep(parts, "r", opts)
	require.NoError(t, err)
	assert.Equal(t, "0", parts[1].Vars[0].Expr)
}
