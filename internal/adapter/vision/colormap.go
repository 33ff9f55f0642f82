package vision

import (
	"image/color"
	"math"
)

// Rainbow maps a scalar intensity in [0,1] to a color, following the
// matplotlib "rainbow" colormap: violet at 0 through blue, green and
// yellow to red at 1.
func Rainbow(x float64) color.RGBA {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}

	r := math.Abs(2*x - 0.5)
	if r > 1 {
		r = 1
	}
	g := math.Sin(x * math.Pi)
	b := math.Cos(x * math.Pi / 2)

	return color.RGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: 255,
	}
}
