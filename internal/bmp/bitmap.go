// bmp package implements an indexed (1 to 8 bit) bitmap reader and writer
package bmp

import (
	"fmt"

	"github.com/anas-shakeel/bmprle/internal/rle"
	"github.com/anas-shakeel/bmprle/internal/utils"
	"github.com/cespare/xxhash/v2"
)

// BitmapImage is one editing session: the headers, the palette and the pixel
// buffer of a single bitmap. Pixels holds one palette index per byte, rows are
// bottom-up and Stride bytes long.
type BitmapImage struct {
	Filename string
	BFHeader *BitmapFileHeader
	BIHeader *BitmapInfoHeader
	Palette  []Color
	Stride   int
	Padding  int
	Pixels   []byte
}

// Creates and returns a blank indexed bitmap.
// A nil palette gets a gray ramp; a shorter one is padded with black.
func CreateBitmap(width, height int, bitCount uint16, palette []Color) (*BitmapImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if bitCount < 1 || bitCount > 8 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitCount)
	}
	if palette == nil {
		palette = GrayPalette(bitCount)
	}
	if len(palette) > PaletteLen(bitCount) {
		return nil, fmt.Errorf("%w: %d colors don't fit in %d bits", ErrUnsupportedBitDepth, len(palette), bitCount)
	}

	fullPalette := make([]Color, PaletteLen(bitCount))
	copy(fullPalette, palette)

	// NewBitmap Headers
	bfh := BitmapFileHeader{Type: [2]byte{'B', 'M'}}
	bih := BitmapInfoHeader{
		Size:        InfoHeaderSize,
		Width:       int32(width),
		Height:      int32(height),
		Planes:      1,
		BitCount:    bitCount,
		Compression: CompressionRLE8,
		ColorsUsed:  uint32(len(palette)),
	}

	b := &BitmapImage{
		BFHeader: &bfh,
		BIHeader: &bih,
		Palette:  fullPalette,
	}
	b.UpdateMeta()
	b.Pixels = make([]byte, b.Stride*height)

	return b, nil
}

// Returns a palette of 2^bitCount evenly spaced grays (black to white)
func GrayPalette(bitCount uint16) []Color {
	n := PaletteLen(bitCount)
	palette := make([]Color, n)
	for i := range n {
		v := byte(i * 255 / max(n-1, 1))
		palette[i] = Color{B: v, G: v, R: v}
	}
	return palette
}

// Width of the bitmap, in pixels
func (b *BitmapImage) Width() int {
	return int(b.BIHeader.Width)
}

// Height of the bitmap, in pixels
func (b *BitmapImage) Height() int {
	return int(b.BIHeader.Height)
}

// Index maps a top-down coordinate to its offset in the bottom-up pixel buffer.
// It does no bounds checking.
func (b *BitmapImage) Index(x, y int) int {
	return x + (b.Height()-1-y)*b.Stride
}

// TopDownRows returns a copy of the pixel buffer with the row order reversed,
// so the first row is the top of the image. Row padding is kept.
func (b *BitmapImage) TopDownRows() []byte {
	height := b.Height()
	out := make([]byte, 0, len(b.Pixels))
	for row := height - 1; row >= 0; row-- {
		out = append(out, b.Pixels[row*b.Stride:(row+1)*b.Stride]...)
	}
	return out
}

// Returns a (deep) Copy of the bitmap image
func (b *BitmapImage) Copy() *BitmapImage {
	bfh := *b.BFHeader
	bih := *b.BIHeader

	newBitmap := BitmapImage{
		Filename: b.Filename,
		BFHeader: &bfh,
		BIHeader: &bih,
		Stride:   b.Stride,
		Padding:  b.Padding,
	}

	// Copy over palette and pixels too
	newBitmap.Palette = make([]Color, len(b.Palette))
	copy(newBitmap.Palette, b.Palette)
	newBitmap.Pixels = make([]byte, len(b.Pixels))
	copy(newBitmap.Pixels, b.Pixels)

	return &newBitmap
}

// Updates the bitmap metadata (based on dimensions and palette).
// File size assumes raw pixel data until the bitmap is encoded.
func (b *BitmapImage) UpdateMeta() {
	stride := rle.Stride(b.Width())
	sizeImage := uint32(stride * b.Height())
	offBits := uint32(FileHeaderSize + InfoHeaderSize + ColorSize*len(b.Palette))

	b.BFHeader.OffBits = offBits
	b.BFHeader.Size = offBits + sizeImage
	b.BIHeader.Size = InfoHeaderSize
	b.BIHeader.SizeImage = sizeImage
	b.Stride = stride
	b.Padding = stride - b.Width()
}

// Checksum returns a hash of the palette and pixels, the parts an edit changes.
func (b *BitmapImage) Checksum() uint64 {
	h := xxhash.New()
	entry := make([]byte, 0, ColorSize*len(b.Palette))
	for _, c := range b.Palette {
		entry = append(entry, c.B, c.G, c.R, c.Reserved)
	}
	_, _ = h.Write(entry)
	_, _ = h.Write(b.Pixels)
	return h.Sum64()
}

// Print the bitmap in terminal. Use for small images only
func (b *BitmapImage) PrintBitmap() {
	width := b.Width()
	rows := b.TopDownRows()

	for row := range b.Height() {
		for col := range width {
			var c Color
			if v := int(rows[row*b.Stride+col]); v < len(b.Palette) {
				c = b.Palette[v]
			}
			fmt.Printf("%s", utils.ColoredBlock("  ", c.R, c.G, c.B))
		}
		fmt.Printf("\n")
	}
}

// Print the Metadata bitmap in terminal. (in human-readable format)
func (b *BitmapImage) PrintMetadata() {
	fmt.Printf("Filename: \t%v\n", b.Filename)
	fmt.Printf("Filesize: \t%v bytes\n", b.BFHeader.Size)
	fmt.Printf("Width: \t\t%v px\n", b.BIHeader.Width)
	fmt.Printf("Height: \t%v px\n", b.BIHeader.Height)
	fmt.Printf("BitCount: \t%vbits\n", b.BIHeader.BitCount)
	fmt.Printf("Compression: \t%v\n", CompressionName(b.BIHeader.Compression))
	fmt.Printf("Colors: \t%v used, %v in palette\n", b.BIHeader.ColorsUsed, len(b.Palette))
	fmt.Printf("PixelOffset: \t%v bytes\n", b.BFHeader.OffBits)
	fmt.Printf("DataSize: \t%v bytes\n", b.BIHeader.SizeImage)
	fmt.Printf("Stride: \t%v bytes\n", b.Stride)
	fmt.Printf("Padding: \t%v bytes\n", b.Padding)
	fmt.Printf("Checksum: \t%016x\n", b.Checksum())
}

// Returns a readable name for a compression value
func CompressionName(compression uint32) string {
	switch compression {
	case CompressionRGB:
		return "none"
	case CompressionRLE8:
		return "RLE8"
	}
	return fmt.Sprintf("unknown (%d)", compression)
}
