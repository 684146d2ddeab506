// Package analysis provides offline chaos diagnostics for built
// systems.
//
//   - [Lyapunov]: largest Lyapunov exponent via twin-trajectory
//     separation with per-step renormalization
//   - [PowerSpectrum]: one-sided FFT amplitude spectrum of a recorded
//     series
//   - [Sweep]: bifurcation sweep over an order-0 parameter variable
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.Lyapunov(l, engine.NewRK4(), y0, 0.01, 50, 1e-8)
//	if lambda > 0 {
//	    // sensitive dependence on initial conditions
//	}
package analysis
