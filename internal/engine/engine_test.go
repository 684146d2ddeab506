package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/phaselab/phaselab/internal/section"
	"github.com/phaselab/phaselab/internal/system"
)

// lorenzParticles defines the Lorenz system with its parameters as
// algebraic variables.
func lorenzParticles() []system.Particle {
	return []system.Particle{{
		Name: "lorenz",
		Vars: []system.Variable{
			{Name: "x", Order: 1, Initial: "1", Expr: "sigma * (y - x)"},
			{Name: "y", Order: 1, Initial: "1", Expr: "x * (rho - z) - y"},
			{Name: "z", Order: 1, Initial: "1", Expr: "x * y - beta * z"},
		},
	}, {
		Name: "params",
		Vars: []system.Variable{
			{Name: "sigma", Order: 0, Expr: "10"},
			{Name: "rho", Order: 0, Expr: "28"},
			{Name: "beta", Order: 0, Expr: "8 / 3"},
		},
	}}
}

func TestAdvance_DrainsAccumulator(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "0", Expr: "1"}},
	}}, Config{Dt: 0.01})

	rep := e.Advance(25*time.Millisecond, 1.0)
	if rep.Steps != 2 {
		t.Errorf("25ms at dt=10ms should take 2 steps, got %d", rep.Steps)
	}
	if math.Abs(rep.Backlog-0.005) > 1e-9 {
		t.Errorf("backlog = %v, want 0.005", rep.Backlog)
	}
	if math.Abs(e.Time()-0.02) > 1e-12 {
		t.Errorf("time = %v, want 0.02", e.Time())
	}
}

func TestAdvance_StepCapRetainsBacklog(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "0", Expr: "1"}},
	}}, Config{Dt: 0.01})

	rep := e.Advance(time.Second, 1.0)
	if rep.Steps != 10 {
		t.Errorf("one second of backlog must be capped at 10 steps, got %d", rep.Steps)
	}
	if math.Abs(rep.Backlog-0.9) > 1e-9 {
		t.Errorf("backlog = %v, want 0.9 retained", rep.Backlog)
	}

	// The retained backlog drains on later calls with no new time.
	rep = e.Advance(0, 1.0)
	if rep.Steps != 10 {
		t.Errorf("retained backlog should keep draining, got %d steps", rep.Steps)
	}
	if math.Abs(rep.Backlog-0.8) > 1e-9 {
		t.Errorf("backlog = %v, want 0.8", rep.Backlog)
	}
}

func TestAdvance_SpeedMultiplier(t *testing.T) {
	mk := func() *Engine {
		return New([]system.Particle{{
			Name: "p",
			Vars: []system.Variable{{Name: "x", Order: 1, Initial: "0", Expr: "1"}},
		}}, Config{Dt: 0.01})
	}

	if rep := mk().Advance(10*time.Millisecond, 2.0); rep.Steps != 2 {
		t.Errorf("doubled speed should take 2 steps, got %d", rep.Steps)
	}
	if rep := mk().Advance(10*time.Millisecond, 0); rep.Steps != 0 {
		t.Errorf("zero speed must not step, got %d", rep.Steps)
	}
	if rep := mk().Advance(5*time.Millisecond, 1.0); rep.Steps != 0 {
		t.Errorf("sub-step elapsed must not step, got %d", rep.Steps)
	}
}

func TestAdvance_HistoryGrows(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "0", Expr: "1"}},
	}}, Config{Dt: 0.01, History: 5})

	e.Advance(80*time.Millisecond, 1.0)
	if e.HistoryLen() != 5 {
		t.Errorf("history should be capped at 5, got %d", e.HistoryLen())
	}

	samples := e.History()
	last := samples[len(samples)-1]
	if math.Abs(last.T-e.Time()) > 1e-12 {
		t.Errorf("latest sample at t=%v, engine at t=%v", last.T, e.Time())
	}
	if _, ok := last.Values["sys1_x"]; !ok {
		t.Error("snapshot missing sys1_x")
	}
}

func TestLorenz_StaysBounded(t *testing.T) {
	e := New(lorenzParticles(), Config{Dt: 0.01})

	res, err := e.Run(context.Background(), 10.0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Steps() != 1000 {
		t.Fatalf("got %d steps, want 1000", res.Steps())
	}
	for _, name := range []string{"sys1_x", "sys1_y", "sys1_z"} {
		st := res.Stats[name]
		if math.Abs(st.Min) > 100 || math.Abs(st.Max) > 100 {
			t.Errorf("%s left the attractor bounds: min=%v max=%v", name, st.Min, st.Max)
		}
	}

	// The algebraic parameters ride along in every snapshot.
	if st := res.Stats["sys2_rho"]; st.Final != 28 {
		t.Errorf("sys2_rho = %v, want 28", st.Final)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	e := New(lorenzParticles(), Config{Dt: 0.01})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, 10.0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Steps() != 0 {
		t.Errorf("canceled run took %d steps", res.Steps())
	}
}

func TestRun_DivergenceStopsEarly(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "10", Expr: "x * x"}},
	}}, Config{Dt: 0.01})

	res, err := e.Run(context.Background(), 10.0)
	if err == nil {
		t.Fatal("finite-time blowup should surface an error")
	}
	if !errors.Is(err, ErrUnstable) {
		t.Errorf("err = %v, want ErrUnstable in the chain", err)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatal("err should be a *StepError")
	}
	if res.Steps() >= 1000 {
		t.Errorf("run should stop early, took %d steps", res.Steps())
	}
}

func TestRebuild_CarriesMatchingSlots(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "1", Expr: "x"}},
	}}, Config{Dt: 0.01})

	e.Advance(100*time.Millisecond, 1.0)
	tBefore := e.Time()
	_, vals := e.Now()
	xBefore := vals["sys1_x"]
	if xBefore <= 1 {
		t.Fatalf("setup: x should have grown, got %v", xBefore)
	}

	e.Rebuild([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{
			{Name: "x", Order: 1, Initial: "5", Expr: "-x"},
			{Name: "y", Order: 1, Initial: "7", Expr: "0"},
		},
	}})

	_, vals = e.Now()
	if vals["sys1_x"] != xBefore {
		t.Errorf("sys1_x = %v, want carried value %v (name unchanged)", vals["sys1_x"], xBefore)
	}
	if vals["sys1_y"] != 7 {
		t.Errorf("sys1_y = %v, want fresh initial 7", vals["sys1_y"])
	}
	if e.Time() != tBefore {
		t.Errorf("time = %v, want %v (rebuild keeps the clock)", e.Time(), tBefore)
	}
	if e.HistoryLen() == 0 {
		t.Error("rebuild must keep history")
	}
}

func TestRebuild_RenamedSlotGetsInitial(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "1", Expr: "x"}},
	}}, Config{Dt: 0.01})
	e.Advance(100*time.Millisecond, 1.0)

	e.Rebuild([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "z", Order: 1, Initial: "3", Expr: "0"}},
	}})

	_, vals := e.Now()
	if vals["sys1_z"] != 3 {
		t.Errorf("sys1_z = %v, want initial 3 for a renamed slot", vals["sys1_z"])
	}
}

func TestEngine_SectionPointsLifecycle(t *testing.T) {
	e := New([]system.Particle{{
		Name: "p",
		Vars: []system.Variable{{Name: "x", Order: 1, Initial: "-0.55", Expr: "1"}},
	}}, Config{
		Dt: 0.1,
		Section: section.Config{
			Mode:      section.ModePlane,
			PlaneVar:  "sys1_x",
			Direction: section.DirPositive,
			PlotX:     "t",
			PlotY:     "sys1_x",
		},
	})

	rep := e.Advance(time.Second, 1.0)
	if rep.NewPoints != 1 {
		t.Fatalf("got %d new points, want 1", rep.NewPoints)
	}
	pts := e.Points()
	if len(pts) != 1 {
		t.Fatalf("PointCount = %d, want 1", len(pts))
	}
	if math.Abs(pts[0].X-0.6) > 1e-9 {
		t.Errorf("crossing at t=%v, want ~0.6", pts[0].X)
	}

	e.ClearPoints()
	if e.PointCount() != 0 {
		t.Error("ClearPoints should discard samples")
	}
}

func TestReset(t *testing.T) {
	e := New(lorenzParticles(), Config{Dt: 0.01})
	e.Advance(500*time.Millisecond, 1.0)
	if e.Time() == 0 {
		t.Fatal("setup: engine did not advance")
	}

	e.Reset()
	if e.Time() != 0 {
		t.Errorf("time = %v after Reset", e.Time())
	}
	if e.HistoryLen() != 0 {
		t.Error("Reset should clear history")
	}
	_, vals := e.Now()
	if vals["sys1_x"] != 1 {
		t.Errorf("sys1_x = %v, want initial 1", vals["sys1_x"])
	}

	// Backlog must not leak across Reset.
	if rep := e.Advance(0, 1.0); rep.Steps != 0 {
		t.Errorf("stale backlog drained %d steps after Reset", rep.Steps)
	}
}

func TestNow_IncludesAlgebraic(t *testing.T) {
	e := New(lorenzParticles(), Config{Dt: 0.01})
	_, vals := e.Now()
	if vals["sys2_sigma"] != 10 {
		t.Errorf("sys2_sigma = %v, want 10", vals["sys2_sigma"])
	}
	if math.Abs(vals["sys2_beta"]-8.0/3.0) > 1e-12 {
		t.Errorf("sys2_beta = %v, want 8/3", vals["sys2_beta"])
	}
}
