// Package render turns a render request into a finished image.
//
// A Request is resolved into a Plan (viewport, iteration parameters,
// colour configuration and supersampling level) and validated as a whole
// before any work starts. The Compositor then runs three stages in order:
//
//  1. sample the escape-time grid at k times the target resolution,
//  2. map the grid to colours,
//  3. box-filter back down to the target resolution when k > 1.
//
// The Renderer hands the result to a Sink. FileSink writes to disk with
// the format chosen from the file extension.
//
// Progress is logged through log/slog. Logging is silent until SetLogger
// installs a logger.
package render
