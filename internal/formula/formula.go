// Package formula compiles user-written math expressions into programs
// evaluated against a scope map of numbers and functions.
//
// Apostrophe derivative notation is rewritten before parsing, so "x''"
// means the identifier x_ddot. Evaluation never fails: parse errors fall
// back to the zero expression and runtime faults yield 0, keeping the
// integration loop alive while a system is being edited.
package formula

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr is a compiled expression. Compile once per system build, evaluate
// once per integration stage.
type Expr struct {
	src     string
	program *vm.Program
}

// Zero evaluates to 0 in any scope. Shared fallback for empty and
// unparseable sources.
var Zero = mustCompile("0")

var derivRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)('{1,3})`)

// Rewrite replaces apostrophe derivative notation with identifier
// suffixes, longest run first: x''' -> x_dddot, x'' -> x_ddot, x' -> x_dot.
func Rewrite(src string) string {
	return derivRe.ReplaceAllStringFunc(src, func(m string) string {
		name := strings.TrimRight(m, "'")
		switch len(m) - len(name) {
		case 1:
			return name + "_dot"
		case 2:
			return name + "_ddot"
		default:
			return name + "_dddot"
		}
	})
}

// Compile parses src after derivative rewriting. Empty or blank input
// compiles to Zero. The returned error carries the original source.
func Compile(src string) (*Expr, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return Zero, nil
	}
	program, err := expr.Compile(Rewrite(trimmed))
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return &Expr{src: src, program: program}, nil
}

// Eval runs the program against scope. Runtime faults (unknown
// identifiers, bad calls) log at debug level and yield 0, so a single
// broken expression cannot halt a step.
func (e *Expr) Eval(scope map[string]any) float64 {
	out, err := expr.Run(e.program, scope)
	if err != nil {
		slog.Debug("expression fault", "src", e.src, "err", err)
		return 0
	}
	return ToFloat(out)
}

// Source returns the raw text the expression was compiled from.
func (e *Expr) Source() string { return e.src }

// ToFloat coerces an evaluation result to a number. Booleans map to 0/1,
// array-likes contribute their first element, everything else is 0.
func ToFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case []any:
		if len(x) > 0 {
			return ToFloat(x[0])
		}
		return 0
	default:
		return 0
	}
}

func mustCompile(src string) *Expr {
	program, err := expr.Compile(src)
	if err != nil {
		panic(err)
	}
	return &Expr{src: src, program: program}
}
