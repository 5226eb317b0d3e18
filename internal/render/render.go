// render package turns bitmaps into drawable images and back
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/anas-shakeel/bmprle/internal/bmp"
	xbmp "golang.org/x/image/bmp"
)

// Paletted converts the bitmap into a top-down paletted image.
// Indexes past the end of the palette (after an invert, say) show as black.
func Paletted(b *bmp.BitmapImage) (*image.Paletted, error) {
	bitCount := b.BIHeader.BitCount
	if bitCount < 1 || bitCount > 8 {
		return nil, fmt.Errorf("%w: %d bits", bmp.ErrUnsupportedBitDepth, bitCount)
	}

	width := b.Width()
	height := b.Height()
	rows := b.TopDownRows()

	// Highest visible index decides the palette length
	colors := len(b.Palette)
	for y := range height {
		for _, v := range rows[y*b.Stride : y*b.Stride+width] {
			colors = max(colors, int(v)+1)
		}
	}

	palette := make(color.Palette, colors)
	for i := range palette {
		palette[i] = color.RGBA{A: 0xff}
		if i < len(b.Palette) {
			c := b.Palette[i]
			palette[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for y := range height {
		copy(img.Pix[y*img.Stride:y*img.Stride+width], rows[y*b.Stride:])
	}
	return img, nil
}

// Writes the bitmap as a PNG image
func WritePNG(w io.Writer, b *bmp.BitmapImage) error {
	img, err := Paletted(b)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Writes the bitmap as an uncompressed BMP, for viewers without RLE support
func ExportBMP(w io.Writer, b *bmp.BitmapImage) error {
	img, err := Paletted(b)
	if err != nil {
		return err
	}
	return xbmp.Encode(w, img)
}

// Import decodes a PNG or (uncompressed) BMP image into a new bitmap.
// Paletted images keep their palette, anything else becomes 8 bit gray.
func Import(r io.Reader) (*bmp.BitmapImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()

	if p, ok := img.(*image.Paletted); ok && len(p.Palette) <= 256 {
		palette := make([]bmp.Color, len(p.Palette))
		for i, c := range p.Palette {
			rgba := color.RGBAModel.Convert(c).(color.RGBA)
			palette[i] = bmp.Color{B: rgba.B, G: rgba.G, R: rgba.R}
		}

		b, err := bmp.CreateBitmap(bounds.Dx(), bounds.Dy(), bitsFor(len(palette)), palette)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", format, err)
		}
		for y := range bounds.Dy() {
			for x := range bounds.Dx() {
				b.Pixels[b.Index(x, y)] = p.ColorIndexAt(x+bounds.Min.X, y+bounds.Min.Y)
			}
		}
		return b, nil
	}

	b, err := bmp.CreateBitmap(bounds.Dx(), bounds.Dy(), 8, nil)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", format, err)
	}
	for y := range bounds.Dy() {
		for x := range bounds.Dx() {
			gray := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
			b.Pixels[b.Index(x, y)] = gray.Y
		}
	}
	return b, nil
}

// Smallest common BMP bit depth holding n colors
func bitsFor(n int) uint16 {
	switch {
	case n <= 2:
		return 1
	case n <= 16:
		return 4
	}
	return 8
}
