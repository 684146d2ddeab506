package analysis

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/phaselab/phaselab/internal/engine"
	"github.com/phaselab/phaselab/internal/formula"
	"github.com/phaselab/phaselab/internal/system"
)

// BifurcationPoint holds the distinct values one quantity visited at a
// single parameter setting.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// SweepOptions tunes a bifurcation sweep.
type SweepOptions struct {
	Min, Max  float64
	Steps     int
	Watch     string  // scope name to record
	Dt        float64
	Transient float64 // settle time dropped before recording
	Record    float64 // recording window after the transient
}

func DefaultSweepOptions() SweepOptions {
	return SweepOptions{Steps: 60, Dt: 0.01, Transient: 30, Record: 10}
}

// Sweep rebuilds the system once per parameter value, replacing the
// named order-0 variable's expression with the literal value, and
// records the quantized-distinct values the watched quantity visits
// after the transient. The parameter may be given bare or qualified.
func Sweep(particles []system.Particle, param string, opts SweepOptions) ([]BifurcationPoint, error) {
	pi, vi, err := findParam(particles, param)
	if err != nil {
		return nil, err
	}
	if opts.Steps < 2 {
		opts.Steps = 2
	}
	if opts.Dt <= 0 {
		opts.Dt = DefaultSweepOptions().Dt
	}

	probe := system.Build(cloneParticles(particles))
	if _, isSlot := probe.Index[opts.Watch]; !isSlot && !contains(probe.AllNames(), opts.Watch) {
		return nil, fmt.Errorf("unknown watch quantity %q", opts.Watch)
	}

	// Every value integrates an independent rebuilt system, so the
	// sweep fans out one goroutine per value with an indexed result
	// slot.
	results := make([]BifurcationPoint, opts.Steps)
	paramStep := (opts.Max - opts.Min) / float64(opts.Steps-1)

	var wg sync.WaitGroup
	for i := 0; i < opts.Steps; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			value := opts.Min + float64(idx)*paramStep
			results[idx] = sweepOne(particles, pi, vi, value, opts)
		}(i)
	}
	wg.Wait()

	return results, nil
}

// sweepOne rebuilds the system with the parameter pinned to value and
// records the quantized-distinct watched values after the transient.
func sweepOne(particles []system.Particle, pi, vi int, value float64, opts SweepOptions) BifurcationPoint {
	parts := cloneParticles(particles)
	parts[pi].Vars[vi].Expr = strconv.FormatFloat(value, 'g', -1, 64)
	l := system.Build(parts)
	watchSlot, isSlot := l.Index[opts.Watch]

	rk4 := engine.NewRK4()
	y := engine.State(l.Initial).Clone()
	t := 0.0

	for t < opts.Transient {
		y = rk4.Step(l, y, t, opts.Dt)
		t += opts.Dt
	}

	values := make([]float64, 0, 64)
	seen := make(map[int]bool)
	end := opts.Transient + opts.Record

	for t < end {
		y = rk4.Step(l, y, t, opts.Dt)
		t += opts.Dt
		if !y.IsValid() {
			break
		}

		var v float64
		if isSlot {
			v = y[watchSlot]
		} else {
			v = formula.ToFloat(l.FullScope(y, t)[opts.Watch])
		}

		// Quantize so a settled orbit contributes a handful of
		// points instead of one per step.
		key := int(v * 1000)
		if !seen[key] {
			seen[key] = true
			values = append(values, v)
		}
	}

	return BifurcationPoint{Param: value, Values: values}
}

func findParam(particles []system.Particle, param string) (int, int, error) {
	for pi, p := range particles {
		for vi, v := range p.Vars {
			if v.Order != 0 {
				continue
			}
			if v.Name == param || system.Qualified(pi+1, v.Name) == param {
				return pi, vi, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("no order-0 variable named %q", param)
}

func cloneParticles(particles []system.Particle) []system.Particle {
	out := make([]system.Particle, len(particles))
	for i, p := range particles {
		out[i] = p
		out[i].Vars = append([]system.Variable(nil), p.Vars...)
	}
	return out
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
