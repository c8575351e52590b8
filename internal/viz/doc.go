// Package viz is the terminal front-end for a pendulum session.
//
// It implements a Bubble Tea model that drives a [loop.Loop] from 60 Hz
// ticks and draws each frame from a [session.Snapshot]:
//
//   - [Canvas]: Braille-based pixel canvas with per-cell colour tones
//   - [Viewport]: mapping between terminal cells and simulation pixels
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Play/Pause
//	R     - Reset to initial state
//	N     - Randomize angles
//	D     - Toggle damping
//	T, E  - Toggle trails and the energy plot
//	Tab   - Select parameter, Up/Down to tune it
//	C     - Cycle color themes
//	?     - Show help overlay
//
// Either mass can be dragged with the left mouse button; the simulation is
// paused for the duration of the drag.
package viz
