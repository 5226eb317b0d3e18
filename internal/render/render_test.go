package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/anas-shakeel/bmprle/internal/bmp"
	"github.com/anas-shakeel/bmprle/internal/filters"
	xbmp "golang.org/x/image/bmp"
)

func newBitmap(t *testing.T) *bmp.BitmapImage {
	t.Helper()
	b, err := bmp.CreateBitmap(3, 2, 8, nil)
	if err != nil {
		t.Fatalf("CreateBitmap: %v", err)
	}
	b.Palette[1] = bmp.Color{R: 255}
	b.Palette[2] = bmp.Color{G: 255}
	b.Pixels[b.Index(0, 0)] = 1
	b.Pixels[b.Index(2, 1)] = 2
	return b
}

func TestPaletted(t *testing.T) {
	img, err := Paletted(newBitmap(t))
	if err != nil {
		t.Fatalf("Paletted: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds = %v", img.Bounds())
	}
	if got := img.At(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("At(0, 0) = %v, want red", got)
	}
	if got := img.At(2, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("At(2, 1) = %v, want green", got)
	}
	if got := img.ColorIndexAt(1, 1); got != 0 {
		t.Errorf("ColorIndexAt(1, 1) = %d, want 0", got)
	}
}

func TestPalettedIndexPastPalette(t *testing.T) {
	b, _ := bmp.CreateBitmap(2, 1, 1, nil)
	filters.Invert(b) // indexes become 255

	img, err := Paletted(b)
	if err != nil {
		t.Fatalf("Paletted: %v", err)
	}
	if len(img.Palette) != 256 {
		t.Fatalf("len(Palette) = %d, want 256", len(img.Palette))
	}
	if got := img.At(1, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("At(1, 0) = %v, want black", got)
	}
}

func TestPalettedUnsupportedBitDepth(t *testing.T) {
	b := newBitmap(t)
	b.BIHeader.BitCount = 24
	if _, err := Paletted(b); !errors.Is(err, bmp.ErrUnsupportedBitDepth) {
		t.Fatalf("Paletted error = %v, want ErrUnsupportedBitDepth", err)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, newBitmap(t)); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("At(0, 0) = %v, want red", img.At(0, 0))
	}
}

func TestExportBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportBMP(&buf, newBitmap(t)); err != nil {
		t.Fatalf("ExportBMP: %v", err)
	}
	img, err := xbmp.Decode(&buf)
	if err != nil {
		t.Fatalf("bmp.Decode: %v", err)
	}

	want, _ := Paletted(newBitmap(t))
	for y := range 2 {
		for x := range 3 {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			r2, g2, b2, _ := want.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Errorf("At(%d, %d) = %v, want %v", x, y, img.At(x, y), want.At(x, y))
			}
		}
	}
}

func TestImportPaletted(t *testing.T) {
	var buf bytes.Buffer
	src := newBitmap(t)
	if err := WritePNG(&buf, src); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	b, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if b.BIHeader.BitCount != 8 {
		t.Errorf("BitCount = %d, want 8", b.BIHeader.BitCount)
	}
	if !bytes.Equal(b.Pixels, src.Pixels) {
		t.Errorf("Pixels = %v, want %v", b.Pixels, src.Pixels)
	}
	if b.Palette[1] != (bmp.Color{R: 255}) {
		t.Errorf("Palette[1] = %v, want red", b.Palette[1])
	}
}

func TestImportGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	b, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if b.BIHeader.BitCount != 8 || b.Width() != 2 || b.Height() != 2 {
		t.Fatalf("imported %dx%d at %d bits", b.Width(), b.Height(), b.BIHeader.BitCount)
	}
	if got := b.Pixels[b.Index(1, 0)]; got != 255 {
		t.Errorf("pixel (1, 0) = %d, want 255", got)
	}
	if got := b.Pixels[b.Index(0, 0)]; got != 0 {
		t.Errorf("pixel (0, 0) = %d, want 0", got)
	}
}

func TestImportNotAnImage(t *testing.T) {
	if _, err := Import(bytes.NewReader([]byte("plain text"))); err == nil {
		t.Fatalf("Import succeeded on text")
	}
}
