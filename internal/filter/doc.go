// Package filter provides the plane-level image operations behind docscan's
// filter bank and quad detector.
//
// This package contains:
//   - Sized Gaussian kernels (OpenCV sigma convention), cached per size
//   - Separable Gaussian blur over single-channel float planes
//   - Summed-area tables and the local-mean adaptive threshold
//   - 256-entry tone curve lookup tables
//
// All functions are pure: inputs are never modified and every result is
// freshly allocated.
package filter
