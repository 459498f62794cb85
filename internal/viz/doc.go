// Package viz renders trajectories for the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [TrajectoryCanvas]: x/y path of a run with the ground line
//   - [PlotField]: one state field over time via asciigraph
//   - [RenderSummary]: metrics panel styled with lipgloss
package viz
