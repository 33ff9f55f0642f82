package vision

import (
	"fmt"
	"image"
	"image/draw"
)

// HeatmapOptions selects which attention slice drives the heatmap and how
// it is blended. The defaults come from config; the indices are tunable
// visualization parameters, not clinical logic.
type HeatmapOptions struct {
	Layer          int
	Head           int
	ReferencePatch int
	GridSize       int
	BlendAlpha     float64
}

// RenderHeatmap builds the side-by-side composite of the original image and
// its attention overlay. It returns an error only to the package-internal
// caller; the engine converts failures into the unmodified original image.
func RenderHeatmap(att *AttentionTensor, original image.Image, opts HeatmapOptions) (image.Image, error) {
	row, err := att.PatchRow(opts.Layer, opts.Head, opts.ReferencePatch)
	if err != nil {
		return nil, err
	}

	if opts.GridSize*opts.GridSize != len(row) {
		return nil, fmt.Errorf("patch grid %dx%d does not cover %d patches",
			opts.GridSize, opts.GridSize, len(row))
	}

	grid := make([][]float64, opts.GridSize)
	for y := range grid {
		grid[y] = make([]float64, opts.GridSize)
		for x := range grid[y] {
			grid[y][x] = float64(row[y*opts.GridSize+x])
		}
	}

	bounds := original.Bounds()
	mask := upsampleBilinear(grid, bounds.Dx(), bounds.Dy())
	normalizeByMax(mask)

	overlay := blendHeatmap(original, mask, opts.BlendAlpha)
	return concatHorizontal(original, overlay), nil
}

// upsampleBilinear scales a small float grid to width×height with bilinear
// interpolation. The grid is resampled directly in float space so that
// normalization happens after interpolation, without 8-bit quantization.
func upsampleBilinear(grid [][]float64, width, height int) [][]float64 {
	gh := len(grid)
	gw := len(grid[0])

	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		// Map output pixel centers back onto the source grid.
		sy := (float64(y)+0.5)*float64(gh)/float64(height) - 0.5
		y0 := clampInt(int(sy), 0, gh-1)
		y1 := clampInt(y0+1, 0, gh-1)
		fy := sy - float64(y0)
		if fy < 0 {
			fy = 0
		}

		for x := 0; x < width; x++ {
			sx := (float64(x)+0.5)*float64(gw)/float64(width) - 0.5
			x0 := clampInt(int(sx), 0, gw-1)
			x1 := clampInt(x0+1, 0, gw-1)
			fx := sx - float64(x0)
			if fx < 0 {
				fx = 0
			}

			top := grid[y0][x0]*(1-fx) + grid[y0][x1]*fx
			bottom := grid[y1][x0]*(1-fx) + grid[y1][x1]*fx
			out[y][x] = top*(1-fy) + bottom*fy
		}
	}
	return out
}

// normalizeByMax scales the mask so its maximum maps to full saturation.
// An all-zero mask is left untouched to avoid dividing by zero.
func normalizeByMax(mask [][]float64) {
	max := 0.0
	for _, row := range mask {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	if max == 0 {
		return
	}
	for _, row := range mask {
		for x := range row {
			row[x] /= max
		}
	}
}

// blendHeatmap colorizes the mask and alpha-blends it over the original
func blendHeatmap(original image.Image, mask [][]float64, alpha float64) *image.RGBA {
	bounds := original.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), original, bounds.Min, draw.Src)

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			heat := Rainbow(mask[y][x])
			i := out.PixOffset(x, y)
			out.Pix[i] = blendChannel(out.Pix[i], heat.R, alpha)
			out.Pix[i+1] = blendChannel(out.Pix[i+1], heat.G, alpha)
			out.Pix[i+2] = blendChannel(out.Pix[i+2], heat.B, alpha)
			out.Pix[i+3] = 255
		}
	}
	return out
}

func blendChannel(base, over uint8, alpha float64) uint8 {
	v := float64(base)*(1-alpha) + float64(over)*alpha
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// concatHorizontal places two images side by side. When heights differ the
// right image is resized proportionally to match the left image's height.
func concatHorizontal(left, right image.Image) image.Image {
	lb := left.Bounds()
	rb := right.Bounds()

	rw, rh := rb.Dx(), rb.Dy()
	if rh != lb.Dy() {
		rw = rw * lb.Dy() / rh
		if rw < 1 {
			rw = 1
		}
		right = ResizeImage(right, rw, lb.Dy())
		rb = right.Bounds()
	}

	out := image.NewRGBA(image.Rect(0, 0, lb.Dx()+rb.Dx(), lb.Dy()))
	draw.Draw(out, image.Rect(0, 0, lb.Dx(), lb.Dy()), left, lb.Min, draw.Src)
	draw.Draw(out, image.Rect(lb.Dx(), 0, lb.Dx()+rb.Dx(), lb.Dy()), right, rb.Min, draw.Src)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
