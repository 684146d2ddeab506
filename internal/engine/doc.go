// Package engine owns the running simulation: the compiled layout, the
// state vector, simulation time, bounded history and Poincaré samples.
//
// Core pieces:
//
//   - [State]: flat first-order state vector
//   - [Stepper]: fixed-step integrator ([RK4], [Euler])
//   - [Derivs]: evaluates the layout's equations at a state
//   - [Engine]: real-time Advance loop and batch Run
//
// # Thread Safety
//
// An Engine is single-owner: one goroutine (the UI tick loop or a batch
// command) calls its methods. Rebuild and SetSection swap configuration
// atomically between steps, never during one.
package engine
