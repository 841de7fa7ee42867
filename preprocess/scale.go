package preprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Scale constrains img so that neither dimension exceeds maxDim, preserving
// aspect ratio. Images already within the limit (and any call with maxDim <= 0)
// are returned unchanged, so callers must not assume the result is a copy.
// Oversized captures slow the engine down without improving accuracy.
func Scale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	var tw, th int
	if w > h {
		tw = maxDim
		th = h * maxDim / w
	} else {
		th = maxDim
		tw = w * maxDim / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
