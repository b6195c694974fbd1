// Package viz provides terminal visualization for the surface graph.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: function picker and settings screen in front of the live view
//   - [Model]: live view of a morphing [graph.Graph] with a frame-rate readout
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera]: perspective projection of surface points onto the canvas
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Start the next transition now
//	M     - Toggle cycle/random mode
//	W     - Toggle points/wireframe
//	[ ]   - Lower/raise resolution
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// The live view can record sessions as GIF animations using the G key.
// Recordings are saved to the current directory.
package viz
