package engine

import (
	"context"
	"time"

	"github.com/phaselab/phaselab/internal/formula"
	"github.com/phaselab/phaselab/internal/section"
	"github.com/phaselab/phaselab/internal/system"
)

const (
	DefaultDt      = 0.01
	DefaultHistory = 2048

	// maxStepsPerTick bounds the work one Advance call may do. When the
	// host falls behind, unconsumed time stays in the accumulator and
	// perceived speed drops instead of the frame stalling.
	maxStepsPerTick = 10
)

// Config tunes an Engine. Zero values fall back to defaults.
type Config struct {
	Dt      float64
	History int
	Stepper Stepper
	Section section.Config
}

// Engine integrates one particle system. All mutation happens inside
// Advance, Run, Rebuild and Reset; accessors are read-only.
type Engine struct {
	layout  *system.Layout
	stepper Stepper
	columns []string

	state State
	t     float64
	h     float64
	acc   float64
	steps int

	// scope is the full scope of the current state, reused as the
	// pre-step scope of the next step.
	scope map[string]any

	history *History
	sampler *section.Sampler
}

// Report describes what one Advance call did.
type Report struct {
	Steps     int
	Time      float64
	Backlog   float64
	NewPoints int
}

func New(particles []system.Particle, cfg Config) *Engine {
	if cfg.Dt <= 0 {
		cfg.Dt = DefaultDt
	}
	if cfg.History <= 0 {
		cfg.History = DefaultHistory
	}
	if cfg.Stepper == nil {
		cfg.Stepper = NewRK4()
	}

	l := system.Build(particles)
	e := &Engine{
		layout:  l,
		stepper: cfg.Stepper,
		columns: l.AllNames(),
		state:   State(l.Initial).Clone(),
		h:       cfg.Dt,
		history: NewHistory(cfg.History),
		sampler: section.New(cfg.Section),
	}
	e.scope = l.FullScope(e.state, e.t)
	return e
}

// Advance accumulates elapsed wall time scaled by speed and drains
// whole h-sized steps, at most maxStepsPerTick of them. Leftover time
// is retained for the next call.
func (e *Engine) Advance(elapsed time.Duration, speed float64) Report {
	if speed > 0 {
		e.acc += elapsed.Seconds() * speed
	}

	var rep Report
	for e.acc >= e.h && rep.Steps < maxStepsPerTick {
		if e.step() {
			rep.NewPoints++
		}
		e.acc -= e.h
		rep.Steps++
	}
	rep.Time = e.t
	rep.Backlog = e.acc
	return rep
}

// Run integrates for duration in one go, collecting every step. The
// sampler and history run exactly as they do live. Run stops early on
// context cancellation or when the state diverges, returning what it
// has alongside the error.
func (e *Engine) Run(ctx context.Context, duration float64) (*Result, error) {
	steps := int(duration / e.h)
	res := &Result{
		Columns: append([]string(nil), e.columns...),
		Times:   make([]float64, 0, steps),
		Rows:    make([][]float64, 0, steps),
	}
	start := time.Now()

	finish := func(err error) (*Result, error) {
		res.Points = append([]section.Point(nil), e.sampler.Points()...)
		res.Stats = computeStats(res)
		res.Elapsed = time.Since(start)
		return res, err
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		default:
		}

		e.step()
		if !e.state.IsValid() {
			return finish(&StepError{Step: i, Time: e.t, Err: ErrUnstable})
		}
		res.Times = append(res.Times, e.t)
		res.Rows = append(res.Rows, e.row())
	}
	return finish(nil)
}

// step advances by exactly h: integrate, push history, feed the
// sampler the pre- and post-step scopes. Returns true when a Poincaré
// point was recorded.
func (e *Engine) step() bool {
	prev := e.scope
	e.state = e.stepper.Step(e.layout, e.state, e.t, e.h)
	e.t += e.h
	post := e.layout.FullScope(e.state, e.t)
	e.history.Push(e.t, e.snapshot(post))
	sampled := e.sampler.Observe(prev, post, e.t, e.h)
	e.scope = post
	e.steps++
	return sampled
}

// Rebuild swaps in a new particle definition between steps. Slots whose
// qualified name is unchanged keep their current value; everything else
// starts from its initial conditions. Time, history and section points
// carry over untouched.
func (e *Engine) Rebuild(particles []system.Particle) {
	next := system.Build(particles)
	state := make(State, next.StateDim())
	copy(state, next.Initial)
	for i, name := range next.Names {
		if j, ok := e.layout.Index[name]; ok && j < len(e.state) {
			state[i] = e.state[j]
		}
	}
	e.layout = next
	e.columns = next.AllNames()
	e.state = state
	e.scope = next.FullScope(state, e.t)
}

// Reset returns to the initial conditions at t=0 and discards history,
// backlog and section points.
func (e *Engine) Reset() {
	e.state = State(e.layout.Initial).Clone()
	e.t = 0
	e.acc = 0
	e.steps = 0
	e.history.Clear()
	e.sampler.Clear()
	e.scope = e.layout.FullScope(e.state, 0)
}

func (e *Engine) snapshot(scope map[string]any) map[string]float64 {
	vals := make(map[string]float64, len(e.columns))
	for _, name := range e.columns {
		vals[name] = formula.ToFloat(scope[name])
	}
	return vals
}

func (e *Engine) row() []float64 {
	row := make([]float64, len(e.columns))
	for i, name := range e.columns {
		row[i] = formula.ToFloat(e.scope[name])
	}
	return row
}

// Now returns the current time and a numeric snapshot of every scope
// quantity.
func (e *Engine) Now() (float64, map[string]float64) {
	return e.t, e.snapshot(e.scope)
}

func (e *Engine) Time() float64           { return e.t }
func (e *Engine) Dt() float64             { return e.h }
func (e *Engine) StepsTaken() int         { return e.steps }
func (e *Engine) State() State            { return e.state.Clone() }
func (e *Engine) Layout() *system.Layout  { return e.layout }
func (e *Engine) History() []Sample       { return e.history.Samples() }
func (e *Engine) HistoryLen() int         { return e.history.Len() }
func (e *Engine) Points() []section.Point { return e.sampler.Points() }
func (e *Engine) PointCount() int         { return e.sampler.Count() }
func (e *Engine) ClearPoints()            { e.sampler.Clear() }
func (e *Engine) Section() section.Config { return e.sampler.Config() }

// SetSection swaps the Poincaré trigger, keeping collected points.
func (e *Engine) SetSection(cfg section.Config) {
	e.sampler.SetConfig(cfg)
}

// Columns returns the scope quantity names in snapshot order.
func (e *Engine) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Series returns the last n history values of one quantity.
func (e *Engine) Series(name string, n int) []float64 {
	return e.history.Series(name, n)
}
