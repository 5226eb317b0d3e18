package filters

import (
	"bytes"
	"testing"

	"github.com/anas-shakeel/bmprle/internal/bmp"
)

func newBitmap(t *testing.T) *bmp.BitmapImage {
	t.Helper()
	b, err := bmp.CreateBitmap(5, 2, 8, []bmp.Color{
		{B: 10, G: 20, R: 30},
		{B: 200, G: 100, R: 0},
		{B: 255, G: 255, R: 255},
	})
	if err != nil {
		t.Fatalf("CreateBitmap: %v", err)
	}
	for i := range b.Pixels {
		b.Pixels[i] = byte(i * 37)
	}
	return b
}

func TestInvert(t *testing.T) {
	b := newBitmap(t)
	original := append([]byte(nil), b.Pixels...)

	Invert(b)
	for i, v := range b.Pixels {
		if v != 255-original[i] {
			t.Fatalf("Pixels[%d] = %d, want %d", i, v, 255-original[i])
		}
	}

	Invert(b)
	if !bytes.Equal(b.Pixels, original) {
		t.Errorf("Invert twice = %v, want %v", b.Pixels, original)
	}
}

func TestGrayscale(t *testing.T) {
	b := newBitmap(t)
	Grayscale(b)

	if got := b.Palette[0]; got.R != 20 || got.G != 20 || got.B != 20 {
		t.Errorf("Palette[0] = %v, want gray 20", got)
	}
	if got := b.Palette[1]; got.R != 100 || got.G != 100 || got.B != 100 {
		t.Errorf("Palette[1] = %v, want gray 100", got)
	}
}

func TestGrayscaleLuma(t *testing.T) {
	b := newBitmap(t)
	GrayscaleLuma(b)

	// 0*299/1000 + 100*587/1000 + 200*114/1000 = 0 + 58 + 22
	if got := b.Palette[1]; got.R != 80 || got.G != 80 || got.B != 80 {
		t.Errorf("Palette[1] = %v, want gray 80", got)
	}
	if got := b.Palette[2]; got.R != 254 {
		t.Errorf("Palette[2] = %v, want gray 254", got)
	}
}

func TestBrightness(t *testing.T) {
	b := newBitmap(t)
	if err := Brightness(b, 100, "add"); err != nil {
		t.Fatalf("Brightness: %v", err)
	}
	if got := b.Palette[1]; got.R != 100 || got.G != 200 || got.B != 255 {
		t.Errorf("Palette[1] = %v, want R100 G200 B255", got)
	}

	if err := Brightness(b, 0.5, "multiply"); err != nil {
		t.Fatalf("Brightness: %v", err)
	}
	if got := b.Palette[1]; got.R != 50 || got.G != 100 || got.B != 127 {
		t.Errorf("Palette[1] = %v, want R50 G100 B127", got)
	}

	if err := Brightness(b, 1, "divide"); err == nil {
		t.Errorf("Brightness accepted an unknown method")
	}
}

func TestContrast(t *testing.T) {
	b, _ := bmp.CreateBitmap(2, 1, 1, []bmp.Color{{}, {B: 200, G: 200, R: 200}})
	b.Pixels[0], b.Pixels[1] = 0, 1
	b.Pixels[2] = 1 // padding, ignored

	// Mean is 100: factor 0 flattens every entry to it
	Contrast(b, 0)
	for i, c := range b.Palette {
		if c.R != 100 || c.G != 100 || c.B != 100 {
			t.Errorf("Palette[%d] = %v, want gray 100", i, c)
		}
	}
}
