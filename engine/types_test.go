package engine

import (
	"image"
	"testing"
)

func TestBoxGeometry(t *testing.T) {
	b := Box{X0: 10, Y0: 20, X1: 110, Y1: 70}
	if b.Width() != 100 || b.Height() != 50 {
		t.Fatalf("unexpected extent: %dx%d", b.Width(), b.Height())
	}
	if b.Empty() {
		t.Fatal("box should not be empty")
	}
	if !(Box{X0: 5, Y0: 5, X1: 5, Y1: 9}).Empty() {
		t.Fatal("zero-width box should be empty")
	}
}

func TestBoxUnion(t *testing.T) {
	a := Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Box{X0: 5, Y0: -5, X1: 20, Y1: 8}
	got := a.Union(b)
	want := Box{X0: 0, Y0: -5, X1: 20, Y1: 10}
	if got != want {
		t.Fatalf("Union() = %+v, want %+v", got, want)
	}
	if got := a.Union(Box{}); got != a {
		t.Fatalf("union with empty box changed result: %+v", got)
	}
	if got := (Box{}).Union(a); got != a {
		t.Fatalf("union onto empty box lost operand: %+v", got)
	}
}

func TestSourceVariants(t *testing.T) {
	if k := (Source{}).Kind(); k != SourceInvalid {
		t.Fatalf("zero source kind = %d, want invalid", k)
	}

	data := []byte{0x89, 'P', 'N', 'G'}
	s := FromBytes(data)
	if s.Kind() != SourceBytes || len(s.Bytes()) != 4 {
		t.Fatalf("unexpected bytes source: %v", s.Describe())
	}
	if s.Describe() != "bytes(4)" {
		t.Fatalf("Describe() = %q", s.Describe())
	}

	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	s = FromImage(img)
	if s.Kind() != SourceImage || s.Image() == nil {
		t.Fatalf("unexpected image source: %v", s.Describe())
	}
	if s.Describe() != "image(640x480)" {
		t.Fatalf("Describe() = %q", s.Describe())
	}

	s = FromFile("/tmp/scans/page-1.png")
	if s.Kind() != SourcePath || s.Path() == "" {
		t.Fatalf("unexpected path source: %v", s.Describe())
	}
	if s.Describe() != "file(page-1.png)" {
		t.Fatalf("Describe() = %q", s.Describe())
	}
}

func TestDefaultProviderRegistry(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	SetDefault(nil)
	if Default() != nil {
		t.Fatal("expected nil default after reset")
	}
}
