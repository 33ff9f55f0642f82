package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeRGB decodes JPEG, PNG or WebP bytes into an RGBA image.
// Transparency is flattened onto a white background, matching how
// uploads are normalized before inference.
func DecodeRGB(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	flattened := image.NewRGBA(bounds)
	draw.Draw(flattened, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flattened, bounds, img, bounds.Min, draw.Over)

	return flattened, format, nil
}

// ResizeImage scales img to the given pixel dimensions with bilinear filtering
func ResizeImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// ToTensor resizes img to size×size and converts it to an NCHW float32
// tensor with channel values scaled to [0,1]. No mean/std normalization is
// applied; the checkpoint was trained on raw [0,1] pixels.
func ToTensor(img image.Image, size int) []float32 {
	resized := ResizeImage(img, size, size)

	tensor := make([]float32, 3*size*size)
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := resized.PixOffset(x, y)
			o := y*size + x
			tensor[o] = float32(resized.Pix[i]) / 255.0
			tensor[plane+o] = float32(resized.Pix[i+1]) / 255.0
			tensor[2*plane+o] = float32(resized.Pix[i+2]) / 255.0
		}
	}
	return tensor
}
