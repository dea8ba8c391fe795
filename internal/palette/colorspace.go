package palette

import "math"

// HSVToRGB converts hue, saturation and value, all in [0,1], to RGB
// channels in [0,1] using the six-sector algorithm.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}
	i := int(h * 6) // truncates toward zero
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	i %= 6
	if i < 0 {
		i += 6
	}
	switch i {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// HCLToRGB converts an HCL (LCh) colour to 8-bit sRGB. Hue is in degrees,
// chroma and luminance on the CIE scale (luminance 0-100). Channels
// outside the sRGB gamut are clamped.
func HCLToRGB(h, c, l float64) (r, g, b uint8) {
	rad := h * math.Pi / 180
	base := (l + 16) / 116
	y := labInverse(base)
	x := labInverse(base + (c/500)*math.Cos(rad))
	z := labInverse(base - (c/200)*math.Sin(rad))

	r = to255(gammaEncode(x*3.021973625 - y*1.617392459 - z*0.404875592))
	g = to255(gammaEncode(x*-0.943766287 + y*1.916279586 + z*0.027607165))
	b = to255(gammaEncode(x*0.069407491 - y*0.22898585 + z*1.159737864))
	return r, g, b
}

// labInverse is the inverse of the L*a*b* companding function, split at
// 6/29.
func labInverse(v float64) float64 {
	if v > 0.2068965 {
		return v * v * v
	}
	return (v - 4.0/29) * (108.0 / 841)
}

// gammaEncode maps a linear sRGB channel to the 0-255 scale.
func gammaEncode(v float64) float64 {
	if v > 0.0031308 {
		return math.Pow(v, 1/2.4)*269.025 - 14.025
	}
	return v * 3294.6
}

// to255 clamps to [0,255] and truncates.
func to255(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
