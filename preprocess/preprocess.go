// Package preprocess transforms images before recognition. Binarization is the
// main transform: noisy captures (phone photos of documents) recognize far
// better as pure black-on-white. All transforms allocate a new output image
// and never mutate their input.
package preprocess

import (
	"image"
	"image/draw"
)

// DefaultThreshold is the luminance cutoff used by Binarize when no
// WithThreshold option is given.
const DefaultThreshold = 128.0

// Luminance weights (ITU-R BT.601, the JPEG luma transform).
const (
	weightR = 0.299
	weightG = 0.587
	weightB = 0.114
)

// Option configures a transform.
type Option func(*config)

type config struct {
	threshold float64
}

// WithThreshold overrides the binarization luminance cutoff.
func WithThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// Binarize converts img to pure black and white: every pixel whose luminance
// (0.299 R + 0.587 G + 0.114 B) exceeds the threshold becomes white, every
// other pixel black. The alpha channel is copied through unchanged. The result
// is a new image with origin-based bounds of the same size; img is not touched.
func Binarize(img image.Image, opts ...Option) *image.NRGBA {
	cfg := config{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := toNRGBA(img)
	for off := 0; off < len(out.Pix); off += 4 {
		lum := weightR*float64(out.Pix[off]) +
			weightG*float64(out.Pix[off+1]) +
			weightB*float64(out.Pix[off+2])
		var v uint8
		if lum > cfg.threshold {
			v = 255
		}
		out.Pix[off] = v
		out.Pix[off+1] = v
		out.Pix[off+2] = v
		// out.Pix[off+3] is the source alpha, untouched.
	}
	return out
}

// Grayscale converts img to 8-bit grayscale using the same luminance weights
// as Binarize. The result is a new image; img is not touched.
func Grayscale(img image.Image) *image.Gray {
	src := toNRGBA(img)
	b := src.Bounds()
	out := image.NewGray(b)
	for i, off := 0, 0; off < len(src.Pix); i, off = i+1, off+4 {
		lum := weightR*float64(src.Pix[off]) +
			weightG*float64(src.Pix[off+1]) +
			weightB*float64(src.Pix[off+2])
		out.Pix[i] = uint8(lum + 0.5)
	}
	return out
}

// toNRGBA copies img into a fresh origin-based NRGBA bitmap. Always a copy,
// even when img is already *image.NRGBA: callers rely on the result not
// aliasing the input.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		// Row copy keeps straight-alpha channel values exact; draw.Draw
		// round-trips them through premultiplied alpha.
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			srcOff := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[srcOff:srcOff+rowLen])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
