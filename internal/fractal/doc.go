// Package fractal evaluates the quadratic Mandelbrot map over a rectangular
// region of the complex plane.
//
// The package has three layers:
//   - Escape and Smooth compute the escape behaviour of a single point
//     under z ← z² + c with z₀ = 0.
//   - Viewport converts a center, zoom and pixel resolution into plane
//     bounds.
//   - Sample evaluates every pixel of a viewport in parallel and returns an
//     IterationGrid (Grid).
//
// # Coordinate System
//
// Pixel (0,0) is the top-left corner of the image and maps to the plane
// point (x1, y1). X increases rightward along the real axis, Y increases
// downward along the imaginary axis:
//
//	re = x1 + x*(x2-x1)/width
//	im = y1 + y*(y2-y1)/height
//
// # Sentinels
//
// A Grid marks points that never escaped with a sentinel value. In
// continuous mode the sentinel is always 0. In discrete mode it is either
// MaxIterations or MaxIterations-1, selected by the Sentinel policy, since
// both conventions exist in the wild. Use Grid.InSet rather than comparing
// values directly.
//
// # Thread Safety
//
// All functions are pure. A Grid is read-only once Sample returns and may be
// shared between goroutines.
//
// # Error Handling
//
// Invalid inputs wrap ErrInvalidConfiguration. Inputs that produce NaN or
// infinite coordinates or values wrap ErrNumericDegenerate. Test with
// errors.Is.
package fractal
