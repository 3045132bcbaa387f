// Package viz renders density fields for terminals and files.
//
//   - [Canvas]: Braille-based pixel canvas, 2×4 sub-pixels per cell
//   - [DensityCanvas]: thresholded braille rendering of a solver frame
//   - [Shade]: ASCII luminance ramp for coarse live views
//   - [CanvasToSVG]: dot-matrix SVG export of a canvas
package viz
