// Package palette converts iteration grids into RGB images.
//
// A Mapper is built once from a Config; the colour scheme is resolved to a
// shading function at that point, so Map never looks anything up by name.
//
// # Schemes
//
//   - grayscale: escaping cells get 255*v/max on all three channels.
//   - hsv: hue = (v/max*360)^HueExponent mod 360 at full saturation and
//     value. Channels are truncated, not rounded.
//   - hcl: the same hue walked around a fixed chroma/luminance slice of the
//     perceptually uniform HCL cylinder, converted through CIE-XYZ and
//     linear sRGB.
//
// Cells equal to the grid's sentinel get the in-set colour. Unless one is
// configured, that is white for continuous-mode grayscale and black
// otherwise.
//
// # Colour Spaces
//
// HSVToRGB and HCLToRGB are exported for callers that need a single
// conversion without a grid.
package palette
