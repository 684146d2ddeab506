// Package system turns user-described particles and variables into a
// flat first-order state layout the integrators can drive.
//
// A variable of order N owns N state slots (value, velocity, ...), wired
// in companion form: each level's derivative is the next level, and the
// top level's derivative is the user expression. Order-0 variables own no
// slot; they are algebraic quantities recomputed from the state every
// time a scope is built.
package system

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phaselab/phaselab/internal/formula"
)

const (
	// MaxVars caps how many variables of a particle take part in the
	// layout. Extra entries are ignored with a warning.
	MaxVars = 3

	// MaxOrder is the highest differentiation order a variable may have.
	MaxOrder = 3
)

// Variable describes one named quantity of a particle. Initial values
// are kept as text; anything that does not parse as a number reads as 0.
type Variable struct {
	Name        string
	Order       int
	Initial     string
	InitialDot  string
	InitialDDot string
	Expr        string
}

// Particle is a named group of up to MaxVars variables. Particles are
// identified by their 1-based position in the build list.
type Particle struct {
	Name string
	Vars []Variable
}

// Equation drives one state slot: d(state[Slot])/dt = Expr evaluated in
// the owner particle's scope.
type Equation struct {
	Slot  int
	Owner int
	Expr  *formula.Expr
}

type algebraicVar struct {
	owner int
	key   string
	expr  *formula.Expr
}

type aliasEntry struct {
	owner    int
	short    string
	suffixed string
	key      string
}

// Layout is the compiled form of a particle list: slot names, their
// index, one equation per slot, and the initial state vector. Layouts
// are immutable after Build.
type Layout struct {
	Names     []string
	Index     map[string]int
	Equations []Equation
	Initial   []float64

	algebraic []algebraicVar
	aliases   []aliasEntry
	coords    [][]string
	nparts    int
}

// Build compiles particles into a Layout. All expressions are compiled
// here, once; unparseable ones become constant zero. Build never fails.
func Build(particles []Particle) *Layout {
	cache := formula.NewCache()
	l := &Layout{
		Index:  make(map[string]int),
		coords: make([][]string, len(particles)),
		nparts: len(particles),
	}

	for pi, p := range particles {
		id := pi + 1
		vars := p.Vars
		if len(vars) > MaxVars {
			slog.Warn("extra variables ignored", "particle", p.Name, "kept", MaxVars, "given", len(vars))
			vars = vars[:MaxVars]
		}

		for _, v := range vars {
			order := clampOrder(v.Order)
			base := Qualified(id, v.Name)

			if order == 0 {
				l.algebraic = append(l.algebraic, algebraicVar{owner: id, key: base, expr: cache.Get(v.Expr)})
				l.aliases = append(l.aliases, aliasEntry{owner: id, short: v.Name, suffixed: suffixedAlias(v.Name, id, 0), key: base})
				continue
			}

			first := len(l.Names)
			for lvl := 0; lvl < order; lvl++ {
				name := base + levelSuffix(lvl)
				if _, dup := l.Index[name]; dup {
					slog.Warn("duplicate state name", "name", name)
				}
				l.Index[name] = len(l.Names)
				l.Names = append(l.Names, name)
				l.Initial = append(l.Initial, initialFor(v, lvl))
				l.aliases = append(l.aliases, aliasEntry{owner: id, short: v.Name + levelSuffix(lvl), suffixed: suffixedAlias(v.Name, id, lvl), key: name})
			}

			if len(l.coords[pi]) < 3 {
				l.coords[pi] = append(l.coords[pi], base)
			}

			for lvl := 0; lvl < order-1; lvl++ {
				l.Equations = append(l.Equations, Equation{Slot: first + lvl, Owner: id, Expr: cache.Get(l.Names[first+lvl+1])})
			}
			l.Equations = append(l.Equations, Equation{Slot: first + order - 1, Owner: id, Expr: cache.Get(v.Expr)})
		}
	}
	return l
}

// StateDim returns the number of state slots.
func (l *Layout) StateDim() int { return len(l.Names) }

// Particles returns how many particles the layout was built from.
func (l *Layout) Particles() int { return l.nparts }

// AllNames returns every scope-visible quantity name: the state slots in
// slot order followed by the algebraic variables in build order.
func (l *Layout) AllNames() []string {
	names := make([]string, 0, len(l.Names)+len(l.algebraic))
	names = append(names, l.Names...)
	for _, a := range l.algebraic {
		names = append(names, a.key)
	}
	return names
}

// Qualified returns the scope name of particle id's variable: sys2_x.
// Derivative levels append _dot, _ddot.
func Qualified(id int, name string) string {
	return fmt.Sprintf("sys%d_%s", id, name)
}

func suffixedAlias(name string, id, level int) string {
	return fmt.Sprintf("%s%d%s", name, id, levelSuffix(level))
}

func levelSuffix(level int) string {
	switch level {
	case 1:
		return "_dot"
	case 2:
		return "_ddot"
	case 3:
		return "_dddot"
	}
	return ""
}

func clampOrder(order int) int {
	if order < 0 {
		return 0
	}
	if order > MaxOrder {
		return MaxOrder
	}
	return order
}

func initialFor(v Variable, level int) float64 {
	var raw string
	switch level {
	case 0:
		raw = v.Initial
	case 1:
		raw = v.InitialDot
	default:
		raw = v.InitialDDot
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
