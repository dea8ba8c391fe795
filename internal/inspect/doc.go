// Package inspect lets clients look at renders after the fact.
//
// A RenderCache keeps the most recent renders in memory, addressable by
// the ID handed back from a render or by the file it was saved to. Images
// that are not cached can still be inspected by path; they are decoded
// from disk on demand.
//
// SampleColor and SampleEntry read pixel colors as hex, RGB and HSL. For
// cached renders each sample also carries the plane coordinate of the
// pixel, which makes it easy to pick the next center to zoom into.
// DominantColors summarises the palette of a whole image.
//
// Crop and GridOverlay return new images as base64 PNG (see EncodePNG).
// Both report plane coordinates when the source is a cached render: a crop
// carries the plane rectangle it covers, and a grid can be labelled with
// plane coordinates instead of pixels.
package inspect
