package engine

import (
	"fmt"
	"image"
	"path/filepath"
)

// SourceKind identifies which variant a Source holds.
type SourceKind int

const (
	SourceInvalid SourceKind = iota
	SourceBytes
	SourceImage
	SourcePath
)

// Source is one input image for recognition: an encoded in-memory payload, a
// decoded bitmap, or a path resolvable by the engine. Exactly one variant is
// set; the zero Source is invalid.
type Source struct {
	kind SourceKind
	data []byte
	img  image.Image
	path string
}

// FromBytes wraps an encoded image payload (PNG, JPEG, TIFF, ...).
func FromBytes(data []byte) Source {
	return Source{kind: SourceBytes, data: data}
}

// FromImage wraps a decoded bitmap, including dynamically rendered surfaces.
func FromImage(img image.Image) Source {
	return Source{kind: SourceImage, img: img}
}

// FromFile wraps a filesystem path to an image the engine reads itself.
func FromFile(path string) Source {
	return Source{kind: SourcePath, path: path}
}

// Kind returns the variant held by the source.
func (s Source) Kind() SourceKind { return s.kind }

// Bytes returns the encoded payload for SourceBytes sources, nil otherwise.
func (s Source) Bytes() []byte { return s.data }

// Image returns the decoded bitmap for SourceImage sources, nil otherwise.
func (s Source) Image() image.Image { return s.img }

// Path returns the file path for SourcePath sources, "" otherwise.
func (s Source) Path() string { return s.path }

// Describe returns a short form of the source for logs and error messages. It
// never exposes pixel data.
func (s Source) Describe() string {
	switch s.kind {
	case SourceBytes:
		return fmt.Sprintf("bytes(%d)", len(s.data))
	case SourceImage:
		if s.img == nil {
			return "image(nil)"
		}
		b := s.img.Bounds()
		return fmt.Sprintf("image(%dx%d)", b.Dx(), b.Dy())
	case SourcePath:
		return "file(" + filepath.Base(s.path) + ")"
	default:
		return "invalid"
	}
}
