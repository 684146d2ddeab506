package formula

import (
	"math"
	"testing"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first derivative", "x'", "x_dot"},
		{"second derivative", "x''", "x_ddot"},
		{"third derivative", "x'''", "x_dddot"},
		{"mixed orders", "a*x'' + b*x' + c*x", "a*x_ddot + b*x_dot + c*x"},
		{"digits and underscores", "v2'' - my_var'", "v2_ddot - my_var_dot"},
		{"no apostrophes", "sin(t) + 1", "sin(t) + 1"},
		{"inside call", "abs(theta')", "abs(theta_dot)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rewrite(tt.in)
			if got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompileEmpty(t *testing.T) {
	for _, src := range []string{"", "   ", "\t\n"} {
		e, err := Compile(src)
		if err != nil {
			t.Fatalf("Compile(%q) returned error: %v", src, err)
		}
		if e != Zero {
			t.Errorf("Compile(%q) should return the shared Zero expression", src)
		}
		if v := e.Eval(map[string]any{}); v != 0 {
			t.Errorf("zero expression evaluated to %v", v)
		}
	}
}

func TestCompileParseError(t *testing.T) {
	for _, src := range []string{"x +", "((", "1 2 3"} {
		if _, err := Compile(src); err == nil {
			t.Errorf("Compile(%q) should fail", src)
		}
	}
}

func TestEval(t *testing.T) {
	scope := map[string]any{
		"x": 2.0,
		"y": 3.0,
		"sin": func(args ...any) any {
			return math.Sin(ToFloat(args[0]))
		},
	}

	tests := []struct {
		src  string
		want float64
	}{
		{"x + y", 5},
		{"x * y - 1", 5},
		{"x^2", 4},
		{"8 / 3 * 3", 8},
		{"sin(0) + x", 2},
		{"abs(0 - y)", 3},
		{"min(x, y)", 2},
		{"1 < 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got := e.Eval(scope)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Eval(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalUnknownIdentifier(t *testing.T) {
	// A fault anywhere zeroes the whole expression, not just the term.
	e, err := Compile("missing + 10")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := e.Eval(map[string]any{}); got != 0 {
		t.Errorf("expression with unknown identifier evaluated to %v, want 0", got)
	}
}

func TestEvalDerivativeNotation(t *testing.T) {
	e, err := Compile("x'' + x'")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	scope := map[string]any{"x_ddot": 1.5, "x_dot": 0.5}
	if got := e.Eval(scope); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("got %v, want 2.0", got)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float64", 2.5, 2.5},
		{"int", 7, 7},
		{"bool true", true, 1},
		{"bool false", false, 0},
		{"array first", []any{1.5, 9.0}, 1.5},
		{"empty array", []any{}, 0},
		{"nil", nil, 0},
		{"string", "nope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToFloat(tt.in); got != tt.want {
				t.Errorf("ToFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCacheMemoizes(t *testing.T) {
	c := NewCache()
	a := c.Get("x + 1")
	b := c.Get("x + 1")
	if a != b {
		t.Error("repeated Get should return the same compiled expression")
	}
	if c.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", c.Len())
	}

	bad := c.Get("x +")
	if bad != Zero {
		t.Error("unparseable source should resolve to Zero")
	}
	if again := c.Get("x +"); again != Zero {
		t.Error("unparseable source should stay resolved to Zero")
	}
}
