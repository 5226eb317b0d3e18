package adjustments

import (
	"bytes"
	"testing"

	"github.com/anas-shakeel/bmprle/internal/bmp"
)

func TestFillRect(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           []byte // bottom-up, stride 4
	}{
		{
			name: "top-left corner",
			x1:   0, y1: 0, x2: 2, y2: 1,
			want: []byte{
				0, 0, 0, 0,
				0, 0, 0, 0,
				7, 7, 0, 0,
			},
		},
		{
			name: "corners in reverse order",
			x1:   2, y1: 3, x2: 1, y2: 1,
			want: []byte{
				0, 7, 0, 0,
				0, 7, 0, 0,
				0, 0, 0, 0,
			},
		},
		{
			name: "clipped to the image",
			x1:   -5, y1: 2, x2: 50, y2: 40,
			want: []byte{
				7, 7, 7, 0,
				0, 0, 0, 0,
				0, 0, 0, 0,
			},
		},
		{
			name: "outside the image",
			x1:   3, y1: 0, x2: 9, y2: 3,
			want: make([]byte, 12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := bmp.CreateBitmap(3, 3, 8, nil)
			FillRect(b, tt.x1, tt.y1, tt.x2, tt.y2, 7)
			if !bytes.Equal(b.Pixels, tt.want) {
				t.Errorf("Pixels = %v, want %v", b.Pixels, tt.want)
			}
		})
	}
}

func TestCrop(t *testing.T) {
	b, _ := bmp.CreateBitmap(6, 4, 8, nil)
	for y := range 4 {
		for x := range 6 {
			b.Pixels[b.Index(x, y)] = byte(10*y + x)
		}
	}

	c, err := Crop(b, 1, 2, 3, 2)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if c.Width() != 3 || c.Height() != 2 || c.Stride != 4 {
		t.Fatalf("cropped to %dx%d stride %d, want 3x2 stride 4", c.Width(), c.Height(), c.Stride)
	}
	want := []byte{
		31, 32, 33, 0, // bottom row is y=3
		21, 22, 23, 0,
	}
	if !bytes.Equal(c.Pixels, want) {
		t.Errorf("Pixels = %v, want %v", c.Pixels, want)
	}
	if b.Width() != 6 {
		t.Errorf("Crop changed the source bitmap")
	}
	if c.BIHeader.SizeImage != 8 {
		t.Errorf("SizeImage = %d, want 8", c.BIHeader.SizeImage)
	}
}

func TestCropOutOfBounds(t *testing.T) {
	b, _ := bmp.CreateBitmap(4, 4, 8, nil)
	for _, r := range [][4]int{{0, 0, 5, 1}, {0, 3, 1, 2}, {-1, 0, 1, 1}, {0, 0, 0, 1}} {
		if _, err := Crop(b, r[0], r[1], r[2], r[3]); err == nil {
			t.Errorf("Crop(%v) succeeded, want error", r)
		}
	}
}
