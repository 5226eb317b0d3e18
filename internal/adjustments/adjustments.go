// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"errors"

	"github.com/anas-shakeel/bmprle/internal/bmp"
)

// Fills a rectangle with a palette index (0,0 is at the top-left of the image).
// The corners may be given in any order; x2 and y2 are exclusive and the
// rectangle is clipped to the image.
func FillRect(b *bmp.BitmapImage, x1, y1, x2, y2 int, value byte) {
	startX, endX := min(x1, x2), max(x1, x2)
	startY, endY := min(y1, y2), max(y1, y2)

	// Clip to the image
	startX, startY = max(startX, 0), max(startY, 0)
	endX, endY = min(endX, b.Width()), min(endY, b.Height())

	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			b.Pixels[b.Index(x, y)] = value
		}
	}
}

// Crops a region in the bitmap image (0,0  is at the top-left of the image)
func Crop(b *bmp.BitmapImage, x, y, width, height int) (*bmp.BitmapImage, error) {
	// Validate bounds
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil, errors.New("invalid bounds: region must be inside the image and not empty")
	} else if width+x > b.Width() {
		return nil, errors.New("invalid bounds: width out of bounds")
	} else if height+y > b.Height() {
		return nil, errors.New("invalid bounds: height out of bounds")
	}

	// Copy the old bitmap (everything except pixels)
	dupBitmap := b.Copy()
	dupBitmap.BIHeader.Width = int32(width)
	dupBitmap.BIHeader.Height = int32(height)

	// Update Metadata of dupBitmap
	dupBitmap.UpdateMeta()

	// Crop the bitmap
	dupBitmap.Pixels = make([]byte, dupBitmap.Stride*height)
	for row := range height { // Height | Rows
		for col := range width { // Width | Columns
			dupBitmap.Pixels[dupBitmap.Index(col, row)] = b.Pixels[b.Index(col+x, row+y)]
		}
	}

	return dupBitmap, nil
}
