package fractal

import (
	"fmt"
	"sort"
	"strings"
)

// Resolution is a named pixel size.
type Resolution struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Resolutions lists the common display sizes, widescreen variants last.
var Resolutions = []Resolution{
	{"HD", 1280, 720},
	{"FHD", 1920, 1080},
	{"QHD", 2560, 1440},
	{"UHD", 3840, 2160},
	{"FUHD", 7680, 4320},
	{"UW_FHD", 2560, 1080},
	{"UW_QHD", 3440, 1440},
	{"UW_UHD", 5120, 2160},
	{"UW_FUHD", 10240, 4320},
}

// LookupResolution finds a resolution by name, ignoring case and treating
// '-' like '_'.
func LookupResolution(name string) (Resolution, error) {
	key := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_")
	for _, r := range Resolutions {
		if r.Name == key {
			return r, nil
		}
	}
	return Resolution{}, fmt.Errorf("%w: unknown resolution %q", ErrInvalidConfiguration, name)
}

// Landmark is a well-known region of the Mandelbrot set.
type Landmark struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Region      Bounds  `json:"region"`
	CenterReal  float64 `json:"center_real"`
	CenterImag  float64 `json:"center_imag"`
	Zoom        float64 `json:"zoom"`
}

func landmark(name, desc string, xmin, xmax, ymin, ymax float64) Landmark {
	return Landmark{
		Name:        name,
		Description: desc,
		Region:      Bounds{X1: xmin, Y1: ymin, X2: xmax, Y2: ymax},
		CenterReal:  (xmin + xmax) / 2,
		CenterImag:  (ymin + ymax) / 2,
		// A square image at zoom z spans 1/z plane units.
		Zoom: 1 / (xmax - xmin),
	}
}

var landmarks = map[string]Landmark{
	"default": {
		Name:        "default",
		Description: "Spiral filaments west of the main cardioid's neck",
		CenterReal:  -0.74,
		CenterImag:  -0.15,
		Zoom:        75,
		Region:      Bounds{X1: -0.74 - 1.0/150, Y1: -0.15 - 1.0/150, X2: -0.74 + 1.0/150, Y2: -0.15 + 1.0/150},
	},
	"seahorse-valley":         landmark("seahorse-valley", "Dense filaments and repeating seahorse curls", -0.8, -0.7, 0.05, 0.15),
	"elephant-valley":         landmark("elephant-valley", "Large bulb with trunk-like tendrils", -1.85, -1.75, -0.10, -0.02),
	"spiral-minibrot":         landmark("spiral-minibrot", "Small Mandelbrot copy with tight spiral arms", -0.7435, -0.7420, 0.1310, 0.1325),
	"triple-spiral":           landmark("triple-spiral", "Threefold symmetric spiral structure", -0.7480, -0.7450, 0.0950, 0.0980),
	"valley-of-the-dragon":    landmark("valley-of-the-dragon", "Deep, highly detailed spiral filaments", -0.7400, -0.7350, 0.1800, 0.1850),
	"minibrot-in-mini-spiral": landmark("minibrot-in-mini-spiral", "Self-similar copy inside a spiral arm", -1.7390, -1.7375, -0.0235, -0.0220),
}

// LookupLandmark finds a landmark by name. Spaces and underscores match '-'.
func LookupLandmark(name string) (Landmark, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	l, ok := landmarks[key]
	if !ok {
		return Landmark{}, fmt.Errorf("%w: unknown landmark %q", ErrInvalidConfiguration, name)
	}
	return l, nil
}

// Landmarks returns all landmarks sorted by name.
func Landmarks() []Landmark {
	out := make([]Landmark, 0, len(landmarks))
	for _, l := range landmarks {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
