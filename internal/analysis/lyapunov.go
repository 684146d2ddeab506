package analysis

import (
	"math"

	"github.com/phaselab/phaselab/internal/engine"
	"github.com/phaselab/phaselab/internal/system"
)

// Lyapunov estimates the largest Lyapunov exponent by integrating two
// trajectories that start d0 apart and renormalizing the pair back to
// distance d0 after every step. A positive result indicates chaos.
func Lyapunov(l *system.Layout, st engine.Stepper, y0 engine.State, dt, duration, d0 float64) float64 {
	if len(y0) == 0 || dt <= 0 || duration <= 0 || d0 <= 0 {
		return 0
	}

	x := y0.Clone()
	xp := y0.Clone()
	xp[0] += d0

	t := 0.0
	sumLog := 0.0
	count := 0

	for t < duration {
		x = st.Step(l, x, t, dt)
		xp = st.Step(l, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if sep <= 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}

		sumLog += math.Log(sep / d0)
		count++

		// Pull the twin back to distance d0 along the current
		// separation direction.
		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
