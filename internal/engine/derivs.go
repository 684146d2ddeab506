package engine

import "github.com/phaselab/phaselab/internal/system"

// Derivs evaluates d(y)/dt at time t: one scope build, one owner-local
// view per particle, one expression evaluation per slot. A faulting
// expression contributes 0 to its slot and the step completes.
func Derivs(l *system.Layout, y State, t float64) State {
	scope := l.FullScope(y, t)
	locals := make([]map[string]any, l.Particles()+1)

	d := make(State, l.StateDim())
	for _, eq := range l.Equations {
		lc := locals[eq.Owner]
		if lc == nil {
			lc = l.Local(eq.Owner, scope)
			locals[eq.Owner] = lc
		}
		d[eq.Slot] = eq.Expr.Eval(lc)
	}
	return d
}
