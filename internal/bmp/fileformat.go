// BMP-specific structs and types
package bmp

// Sizes (in bytes) of the on-disk structures
const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
	ColorSize      = 4
)

// Byte offsets of header fields that are patched after the payload is written
const (
	fileSizeOffset  = 2
	sizeImageOffset = 34
)

// Values of BitmapInfoHeader.Compression
const (
	CompressionRGB  = 0 // Uncompressed (raw) pixel data
	CompressionRLE8 = 1 // Run-length encoded pixel data
)

// The BitmapFileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader

type BitmapFileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; round-trips unchanged.
	Reserved2 uint16  // Reserved; round-trips unchanged.
	OffBits   uint32  // Bitmap File Offset (In bytes) to Pixel Arrays
}

// The BitmapInfoHeader structure contains information about the
// dimensions and color format of DIB [device-independent bitmap].

type BitmapInfoHeader struct {
	Size            uint32 // The number of bytes required by the structure (40).
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels (bottom-up, positive)
	Planes          uint16 // The number of planes for the target device (1).
	BitCount        uint16 // The number of bits-per-pixel (1 to 8).
	Compression     uint32 // The type of compression (CompressionRGB or CompressionRLE8)
	SizeImage       uint32 // The size of the decoded pixel data (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
}

// Color is a single palette (color table) entry, stored as blue, green, red.
type Color struct {
	B, G, R  byte
	Reserved byte
}

// Returns the number of palette entries for a bit depth (always 2^bitCount)
func PaletteLen(bitCount uint16) int {
	return 1 << bitCount
}
