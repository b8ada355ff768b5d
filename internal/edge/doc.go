// Package edge finds document outlines in single-channel planes.
//
// The pipeline mirrors the classic contour approach:
//   - Sobel gradients with replicated borders
//   - Canny non-maximum suppression and hysteresis
//   - 3x3 dilation to close one-pixel gaps
//   - Moore-neighbour tracing of each 8-connected component's outer border
//   - Douglas-Peucker approximation of the closed border
//
// Coordinates are integer pixel positions with the origin at top-left.
package edge
