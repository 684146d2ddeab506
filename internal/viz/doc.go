// Package viz renders engine output in the terminal.
//
//   - [Canvas]: braille pixel grid for high-resolution drawing
//   - [Plot]: autoscaled XY rasterizer used for phase portraits,
//     Poincaré sections and bifurcation diagrams
//   - [Model]: Bubble Tea program that advances a live engine at
//     wall-clock rate and draws the portrait, a value strip and the
//     section panel
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial state
//	Tab   - Cycle the strip variable
//	X/Y   - Cycle the portrait axes
//	+/-   - Double/halve the speed multiplier
//	C     - Clear section samples
//	T     - Cycle color themes
//	?     - Show help
package viz
