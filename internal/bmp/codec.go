package bmp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anas-shakeel/bmprle/internal/rle"
)

// Largest pixel buffer Decode will allocate
const maxPixelBytes = 1 << 30

// Reads a Bitmap file
func ReadBitmap(filename string) (*BitmapImage, error) {
	b, err := readBitmap(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, filename, err)
	}
	return b, nil
}

func readBitmap(filename string) (*BitmapImage, error) {
	// Open the file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer file.Close()

	b, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, err
	}
	b.Filename = filename

	return b, nil
}

// Decode reads a bitmap (headers, palette and pixel data) from r.
// RLE8 pixel data is expanded into the pixel buffer.
func Decode(r io.Reader) (*BitmapImage, error) {
	// Read File Header
	var bfHeader BitmapFileHeader
	if err := binary.Read(r, binary.LittleEndian, &bfHeader); err != nil {
		return nil, readError(err)
	}
	if bfHeader.Type != [2]byte{'B', 'M'} {
		return nil, ErrNotABitmap
	}

	// Read Info Header
	var biHeader BitmapInfoHeader
	if err := binary.Read(r, binary.LittleEndian, &biHeader); err != nil {
		return nil, readError(err)
	}
	if biHeader.Size < InfoHeaderSize {
		return nil, fmt.Errorf("%w: info header is %d bytes", ErrNotABitmap, biHeader.Size)
	}
	if biHeader.BitCount < 1 || biHeader.BitCount > 8 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, biHeader.BitCount)
	}
	if biHeader.Width <= 0 || biHeader.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, biHeader.Width, biHeader.Height)
	}

	width := int(biHeader.Width)
	height := int(biHeader.Height)
	stride := rle.Stride(width)
	if int64(stride)*int64(height) > maxPixelBytes {
		return nil, fmt.Errorf("%w: %dx%d is too large", ErrInvalidDimensions, width, height)
	}

	// Skip the rest of a larger (V4/V5) info header
	pos := int64(FileHeaderSize) + int64(biHeader.Size)
	if err := skip(r, int64(biHeader.Size-InfoHeaderSize)); err != nil {
		return nil, err
	}

	// Read the palette (always fully populated)
	palette := make([]Color, PaletteLen(biHeader.BitCount))
	if err := binary.Read(r, binary.LittleEndian, palette); err != nil {
		return nil, readError(err)
	}
	pos += int64(ColorSize * len(palette))

	// Seek to Pixel Array (OffBits), when there is a gap
	if off := int64(bfHeader.OffBits); off > pos {
		if err := skip(r, off-pos); err != nil {
			return nil, err
		}
	}

	pixels := make([]byte, stride*height)

	switch biHeader.Compression {
	case CompressionRGB:
		size := int64(biHeader.SizeImage)
		if size == 0 {
			size = int64(len(pixels))
		}
		if size != int64(len(pixels)) {
			return nil, fmt.Errorf("%w: header says %d bytes, %dx%d needs %d",
				ErrDataSize, size, width, height, len(pixels))
		}
		if _, err := io.ReadFull(r, pixels); err != nil {
			return nil, readError(err)
		}

	case CompressionRLE8:
		// SizeImage holds the decoded size (see Encode), which can be smaller
		// than a stream of short runs. The stream has its own terminator, so
		// the rest of the file is the payload.
		payload, err := io.ReadAll(r)
		if err != nil {
			return nil, readError(err)
		}
		if err := rle.Decode(pixels, payload, width); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupportedCompression, biHeader.Compression)
	}

	return &BitmapImage{
		BFHeader: &bfHeader,
		BIHeader: &biHeader,
		Palette:  palette,
		Stride:   stride,
		Padding:  stride - width,
		Pixels:   pixels,
	}, nil
}

// Saves the bitmap image onto local disk (RLE8 compressed)
func (b *BitmapImage) Save(filename string) error {
	if err := b.save(filename); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, filename, err)
	}
	b.Filename = filename
	return nil
}

func (b *BitmapImage) save(filename string) error {
	newBitmap, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer newBitmap.Close()

	// Create a buffer (to reduce syscalls)
	w := bufio.NewWriter(newBitmap)
	if err := b.Encode(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := newBitmap.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Encode writes the bitmap to w with RLE8 compressed pixel data.
//
// The file is assembled in memory first; the file size (offset 2) and the
// decoded data size (offset 34) are patched in once the payload is known.
// On success the headers are updated to match what was written.
func (b *BitmapImage) Encode(w io.Writer) error {
	bitCount := b.BIHeader.BitCount
	if bitCount < 1 || bitCount > 8 {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitCount)
	}

	// RLE8 compression
	payload, err := rle.Encode(b.Pixels, b.Width(), b.Height())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataSize, err)
	}

	palette := make([]Color, PaletteLen(bitCount))
	copy(palette, b.Palette)

	bfh := *b.BFHeader
	bih := *b.BIHeader
	bfh.OffBits = uint32(FileHeaderSize + InfoHeaderSize + ColorSize*len(palette))
	bih.Size = InfoHeaderSize
	bih.Compression = CompressionRLE8

	buf := bytes.NewBuffer(make([]byte, 0, int(bfh.OffBits)+len(payload)))

	// Write File Header, Info Header and the color table
	for _, v := range []any{&bfh, &bih, palette} {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	buf.Write(payload)

	data := buf.Bytes()

	// Patch the sizes
	binary.LittleEndian.PutUint32(data[fileSizeOffset:], uint32(len(data)))
	binary.LittleEndian.PutUint32(data[sizeImageOffset:], uint32(len(b.Pixels)))

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	bfh.Size = uint32(len(data))
	bih.SizeImage = uint32(len(b.Pixels))
	*b.BFHeader = bfh
	*b.BIHeader = bih
	b.Palette = palette

	return nil
}

// Discards n bytes from r
func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return readError(err)
	}
	return nil
}

// Classifies a failed read: running out of bytes means the file is truncated
func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
