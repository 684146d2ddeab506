package config

// Presets are complete built-in systems. Parameters are expressed as
// order-0 variables so a sweep can override them without touching the
// equations.
var Presets = map[string]*Config{
	"lorenz": {
		Name: "lorenz", Dt: 0.01, Speed: 1.0, History: 2048,
		Particles: []ParticleConfig{
			{
				Name: "lorenz", Color: "#ff5f87",
				Vars: []VarConfig{
					{Name: "x", Order: 1, Initial: "1", Expr: "sigma * (y - x)"},
					{Name: "y", Order: 1, Initial: "1", Expr: "x * (rho - z) - y"},
					{Name: "z", Order: 1, Initial: "1", Expr: "x * y - beta * z"},
				},
			},
			{
				Name: "params",
				Vars: []VarConfig{
					{Name: "sigma", Order: 0, Expr: "10"},
					{Name: "rho", Order: 0, Expr: "28"},
					{Name: "beta", Order: 0, Expr: "8 / 3"},
				},
			},
		},
		Poincare: PoincareConfig{
			Mode: "plane", PlaneVar: "sys1_z", PlaneValue: 27, Direction: "both",
			PlotX: "sys1_x", PlotY: "sys1_y",
		},
	},

	"rossler": {
		Name: "rossler", Dt: 0.02, Speed: 2.0, History: 4096,
		Particles: []ParticleConfig{
			{
				Name: "rossler", Color: "#5fafff",
				Vars: []VarConfig{
					{Name: "x", Order: 1, Initial: "1", Expr: "-y - z"},
					{Name: "y", Order: 1, Initial: "1", Expr: "x + a * y"},
					{Name: "z", Order: 1, Initial: "1", Expr: "b + z * (x - c)"},
				},
			},
			{
				Name: "params",
				Vars: []VarConfig{
					{Name: "a", Order: 0, Expr: "0.2"},
					{Name: "b", Order: 0, Expr: "0.2"},
					{Name: "c", Order: 0, Expr: "5.7"},
				},
			},
		},
		Poincare: PoincareConfig{
			Mode: "plane", PlaneVar: "sys1_y", PlaneValue: 0, Direction: "negative",
			PlotX: "sys1_x", PlotY: "sys1_z",
		},
	},

	"duffing": {
		Name: "duffing", Dt: 0.01, Speed: 2.0, History: 4096,
		Particles: []ParticleConfig{
			{
				Name: "osc", Color: "#ffaf5f",
				Vars: []VarConfig{
					{Name: "x", Order: 2, Initial: "1", InitialDot: "0",
						Expr: "gamma * cos(omega * t) - delta * x' - alpha * x - beta * x^3"},
				},
			},
			{
				Name: "drive",
				Vars: []VarConfig{
					{Name: "gamma", Order: 0, Expr: "0.5"},
					{Name: "omega", Order: 0, Expr: "1.2"},
				},
			},
			{
				Name: "damping",
				Vars: []VarConfig{
					{Name: "delta", Order: 0, Expr: "0.3"},
					{Name: "alpha", Order: 0, Expr: "-1"},
					{Name: "beta", Order: 0, Expr: "1"},
				},
			},
		},
		// Stroboscopic map: one sample per driving period.
		Poincare: PoincareConfig{
			Mode: "time", Period: "2 * pi / sys2_omega",
			PlotX: "sys1_x", PlotY: "sys1_x_dot",
		},
	},

	"pendulum": {
		Name: "pendulum", Dt: 0.005, Speed: 1.0, History: 2048,
		Particles: []ParticleConfig{
			{
				Name: "bob", Color: "#87d787",
				Vars: []VarConfig{
					{Name: "theta", Order: 2, Initial: "2.5", InitialDot: "0",
						Expr: "-(g / L) * sin(theta) - damping * theta'"},
				},
			},
			{
				Name: "env",
				Vars: []VarConfig{
					{Name: "L", Order: 0, Expr: "1"},
					{Name: "damping", Order: 0, Expr: "0.15"},
				},
			},
		},
	},

	"orbit": {
		Name: "orbit", Dt: 0.002, Speed: 1.0, History: 8192,
		Particles: []ParticleConfig{
			{
				Name: "sun", Color: "#ffd700",
				Vars: []VarConfig{
					{Name: "x", Order: 1, Initial: "0", Expr: "0"},
					{Name: "y", Order: 1, Initial: "0", Expr: "0"},
				},
			},
			{
				Name: "planet", Color: "#5fd7ff",
				Vars: []VarConfig{
					{Name: "x", Order: 2, Initial: "1", InitialDot: "0",
						Expr: "-mu * (x - x1) / dist(1, 2)^3"},
					{Name: "y", Order: 2, Initial: "0", InitialDot: "1",
						Expr: "-mu * (y - y1) / dist(1, 2)^3"},
				},
			},
			{
				Name: "env",
				Vars: []VarConfig{
					{Name: "mu", Order: 0, Expr: "1"},
				},
			},
		},
		Poincare: PoincareConfig{
			Mode: "plane", PlaneVar: "sys2_y", PlaneValue: 0, Direction: "positive",
			PlotX: "sys2_x", PlotY: "sys2_x_dot",
		},
	},

	"brusselator": {
		Name: "brusselator", Dt: 0.01, Speed: 2.0, History: 4096,
		Particles: []ParticleConfig{
			{
				Name: "cell", Color: "#d787ff",
				Vars: []VarConfig{
					{Name: "x", Order: 1, Initial: "1", Expr: "a + x^2 * y - bp1 * x"},
					{Name: "y", Order: 1, Initial: "1", Expr: "b * x - x^2 * y"},
				},
			},
			{
				Name: "rates",
				Vars: []VarConfig{
					{Name: "a", Order: 0, Expr: "1"},
					{Name: "b", Order: 0, Expr: "2.5"},
					{Name: "bp1", Order: 0, Expr: "b + 1"},
				},
			},
		},
		Poincare: PoincareConfig{
			Mode: "time", Period: "7",
			PlotX: "sys1_x", PlotY: "sys1_y",
		},
	},
}
