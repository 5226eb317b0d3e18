// Filters perform color manipulation and per-pixel operations.
// Pixels hold palette indexes, so color filters work on the palette.
package filters

import (
	"errors"
	"math"

	"github.com/anas-shakeel/bmprle/internal/bmp"
	"github.com/anas-shakeel/bmprle/internal/utils"
)

// Inverts the brightness of the bitmap image: every byte v of the pixel
// buffer becomes 255-v. Applying it twice restores the buffer.
func Invert(b *bmp.BitmapImage) {
	for i := range b.Pixels {
		b.Pixels[i] = 255 - b.Pixels[i]
	}
}

// Converts the palette to Black-and-White
func Grayscale(b *bmp.BitmapImage) {
	for i, c := range b.Palette {
		avg := byte(utils.Average(int(c.R), int(c.G), int(c.B)))
		b.Palette[i].R, b.Palette[i].G, b.Palette[i].B = avg, avg, avg
	}
}

// Converts the palette to Black-and-White (with ITU-R 601-2 Luma Transform)
func GrayscaleLuma(b *bmp.BitmapImage) {
	for i, c := range b.Palette {
		L := byte(int(c.R)*299/1000 + int(c.G)*587/1000 + int(c.B)*114/1000)
		b.Palette[i].R, b.Palette[i].G, b.Palette[i].B = L, L, L
	}
}

// Adjusts the Brightness of the palette in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Channel values are clipped to [0, 255].
func Brightness(b *bmp.BitmapImage, factor float64, method string) error {
	type Operation func(x, y float64) float64
	var operation Operation

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x, y float64) float64 {
			return x + y
		}
	case "multiply":
		operation = func(x, y float64) float64 {
			return x * y
		}
	default:
		return errors.New("invalid method: method must be add or multiply")
	}

	for i, c := range b.Palette {
		b.Palette[i].R = clip(operation(float64(c.R), factor))
		b.Palette[i].G = clip(operation(float64(c.G), factor))
		b.Palette[i].B = clip(operation(float64(c.B), factor))
	}

	return nil
}

// Adjusts the Contrast of the palette in-place, around the mean color of the
// visible pixels. factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(b *bmp.BitmapImage, factor float64) {
	width := b.Width()
	height := b.Height()
	if width == 0 || height == 0 {
		return
	}

	// Compute mean for each channel (padding bytes are not pixels)
	var sumR, sumG, sumB int
	for row := range height {
		for col := range width {
			v := int(b.Pixels[row*b.Stride+col])
			if v >= len(b.Palette) {
				continue
			}
			sumR += int(b.Palette[v].R)
			sumG += int(b.Palette[v].G)
			sumB += int(b.Palette[v].B)
		}
	}
	totalPixels := width * height
	meanR := float64(sumR / totalPixels) // Average of all R pixels
	meanG := float64(sumG / totalPixels) // Average of all G pixels
	meanB := float64(sumB / totalPixels) // Average of all B pixels

	// Apply contrast
	for i, c := range b.Palette {
		b.Palette[i].R = clip(float64(c.R)*factor + (1-factor)*meanR)
		b.Palette[i].G = clip(float64(c.G)*factor + (1-factor)*meanG)
		b.Palette[i].B = clip(float64(c.B)*factor + (1-factor)*meanB)
	}
}

func clip(v float64) byte {
	return byte(math.Min(math.Max(v, 0), 255))
}
