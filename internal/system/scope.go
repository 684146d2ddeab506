package system

import (
	"math"
	"maps"

	"github.com/phaselab/phaselab/internal/formula"
)

// algebraicPasses bounds the fixed-point resolution of order-0
// variables. Three passes resolve chains up to three references deep;
// deeper chains read their tail as 0. Bounded on purpose: the loop must
// finish in real time even if a user writes a = b, b = a.
const algebraicPasses = 3

// FullScope builds the evaluation scope for a state vector at time t:
// math functions, constants, every slot value under its qualified name,
// dist, then the algebraic variables resolved over three passes.
func (l *Layout) FullScope(state []float64, t float64) map[string]any {
	scope := make(map[string]any, len(l.Names)+len(l.algebraic)+len(mathFuncs)+8)
	for name, fn := range mathFuncs {
		scope[name] = fn
	}
	scope["t"] = t
	scope["pi"] = math.Pi
	scope["tau"] = 2 * math.Pi
	scope["e"] = math.E
	scope["g"] = 9.81
	scope["G"] = 6.6743e-11

	for i, name := range l.Names {
		if i < len(state) {
			scope[name] = state[i]
		}
	}
	scope["dist"] = l.distFunc(scope)

	for pass := 0; pass < algebraicPasses; pass++ {
		for _, a := range l.algebraic {
			scope[a.key] = a.expr.Eval(l.Local(a.owner, scope))
		}
	}
	return scope
}

// Local returns owner's view of base: every quantity additionally
// reachable under its bare name and its id-suffixed name (x2, y2_dot).
// For bare names the owner's variable wins, then the first particle to
// define the name. Base is never mutated.
func (l *Layout) Local(owner int, base map[string]any) map[string]any {
	scope := maps.Clone(base)
	for _, a := range l.aliases {
		v, ok := base[a.key]
		if !ok {
			continue
		}
		scope[a.suffixed] = v
		if a.owner == owner {
			scope[a.short] = v
		} else if _, taken := scope[a.short]; !taken {
			scope[a.short] = v
		}
	}
	return scope
}

// distFunc closes over the scope being built so dist(i, j) reads current
// slot values. Coordinates are the base values of a particle's first
// three differential variables; missing axes read 0, unknown particle
// ids give distance 0.
func (l *Layout) distFunc(scope map[string]any) func(args ...any) any {
	return func(args ...any) any {
		if len(args) != 2 {
			return 0.0
		}
		a := l.coordKeys(int(formula.ToFloat(args[0])))
		b := l.coordKeys(int(formula.ToFloat(args[1])))
		if a == nil || b == nil {
			return 0.0
		}
		sum := 0.0
		for k := 0; k < max(len(a), len(b)); k++ {
			var av, bv float64
			if k < len(a) {
				av = formula.ToFloat(scope[a[k]])
			}
			if k < len(b) {
				bv = formula.ToFloat(scope[b[k]])
			}
			d := av - bv
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}

func (l *Layout) coordKeys(id int) []string {
	if id < 1 || id > len(l.coords) {
		return nil
	}
	return l.coords[id-1]
}

func unary(f func(float64) float64) func(args ...any) any {
	return func(args ...any) any {
		if len(args) != 1 {
			return 0.0
		}
		return f(formula.ToFloat(args[0]))
	}
}

func binary(f func(x, y float64) float64) func(args ...any) any {
	return func(args ...any) any {
		if len(args) != 2 {
			return 0.0
		}
		return f(formula.ToFloat(args[0]), formula.ToFloat(args[1]))
	}
}

var mathFuncs = map[string]any{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"sqrt":  unary(math.Sqrt),
	"cbrt":  unary(math.Cbrt),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"log2":  unary(math.Log2),
	"log10": unary(math.Log10),
	"atan2": binary(math.Atan2),
	"pow":   binary(math.Pow),
	"hypot": binary(math.Hypot),
	"mod":   binary(math.Mod),
	"sign": unary(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	}),
}
