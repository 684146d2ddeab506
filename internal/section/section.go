// Package section collects Poincaré section points from a running
// integration. The sampler watches consecutive step scopes and records a
// (PlotX, PlotY) pair whenever its trigger fires.
package section

import (
	"math"

	"github.com/phaselab/phaselab/internal/formula"
)

// Mode selects the trigger.
type Mode string

const (
	// ModeOff records nothing.
	ModeOff Mode = "off"
	// ModeTime samples once per period, where the period is an
	// expression evaluated against the current scope.
	ModeTime Mode = "time"
	// ModePlane samples when a watched quantity crosses a plane value.
	ModePlane Mode = "plane"
)

// Direction restricts plane crossings.
type Direction string

const (
	DirPositive Direction = "positive"
	DirNegative Direction = "negative"
	DirBoth     Direction = "both"
)

// Config describes a section. Names refer to scope quantities by their
// qualified form (sys1_x, sys1_x_dot, sys2_theta).
type Config struct {
	Mode       Mode
	Period     string
	PlaneVar   string
	PlaneValue float64
	Direction  Direction
	PlotX      string
	PlotY      string
}

// Enabled reports whether the config triggers at all.
func (c Config) Enabled() bool {
	return c.Mode == ModeTime || c.Mode == ModePlane
}

// Point is one recorded sample.
type Point struct {
	X float64
	Y float64
	T float64
}

// Sampler accumulates section points across steps. Points survive
// reconfiguration and are discarded only through Clear.
type Sampler struct {
	cfg    Config
	points []Point
}

func New(cfg Config) *Sampler {
	return &Sampler{cfg: cfg}
}

// SetConfig swaps the trigger while keeping collected points.
func (s *Sampler) SetConfig(cfg Config) { s.cfg = cfg }

// Config returns the active trigger configuration.
func (s *Sampler) Config() Config { return s.cfg }

// Points returns the collected samples. The slice is owned by the
// sampler; callers must not modify it.
func (s *Sampler) Points() []Point { return s.points }

// Count returns how many samples have been collected.
func (s *Sampler) Count() int { return len(s.points) }

// Clear discards all samples.
func (s *Sampler) Clear() { s.points = nil }

// Observe inspects one completed step. prev and post are the scopes
// before and after the step, t is the post-step time and h the step
// size. Returns true when a point was recorded.
func (s *Sampler) Observe(prev, post map[string]any, t, h float64) bool {
	switch s.cfg.Mode {
	case ModeTime:
		return s.observeTime(post, t, h)
	case ModePlane:
		return s.observePlane(prev, post, t)
	}
	return false
}

// observeTime fires when the step jumped over a period boundary. The
// period is recompiled every observation: it is an expression and may
// depend on t or on system quantities.
func (s *Sampler) observeTime(post map[string]any, t, h float64) bool {
	p, err := formula.Compile(s.cfg.Period)
	if err != nil {
		return false
	}
	period := p.Eval(post)
	if period <= 0 {
		return false
	}
	if math.Floor((t-h)/period) >= math.Floor(t/period) {
		return false
	}
	return s.emit(post, t)
}

func (s *Sampler) observePlane(prev, post map[string]any, t float64) bool {
	pv, ok := num(prev[s.cfg.PlaneVar])
	if !ok {
		return false
	}
	cv, ok := num(post[s.cfg.PlaneVar])
	if !ok {
		return false
	}

	v := s.cfg.PlaneValue
	var crossed bool
	switch s.cfg.Direction {
	case DirNegative:
		crossed = pv > v && cv <= v
	case DirBoth:
		crossed = (pv < v && cv >= v) || (pv > v && cv <= v)
	default:
		crossed = pv < v && cv >= v
	}
	if !crossed {
		return false
	}
	return s.emit(post, t)
}

// emit records (PlotX, PlotY) from the post scope. A name that does not
// resolve to a number skips the sample: during a live rebuild the plot
// variables may briefly not exist.
func (s *Sampler) emit(post map[string]any, t float64) bool {
	x, ok := num(post[s.cfg.PlotX])
	if !ok {
		return false
	}
	y, ok := num(post[s.cfg.PlotY])
	if !ok {
		return false
	}
	s.points = append(s.points, Point{X: x, Y: y, T: t})
	return true
}

func num(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}
