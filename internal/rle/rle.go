// rle package implements the BMP run-length codec (RLE8) for indexed pixel buffers
package rle

import (
	"errors"
	"fmt"
)

// Escape codes that follow a zero count byte
const (
	endOfLine   = 0
	endOfBitmap = 1
	delta       = 2
)

// A count byte can't describe more than 255 pixels
const maxCount = 255

// ErrMalformedStream reports a compressed stream that ends (or runs short)
// before its end-of-bitmap marker.
var ErrMalformedStream = errors.New("rle: malformed stream")

// ErrBufferSize reports a pixel buffer that is not a whole number of rows.
var ErrBufferSize = errors.New("rle: pixel buffer is not a whole number of rows")

// Returns the number of bytes in a stored row (4-byte aligned)
func Stride(width int) int {
	return ((width + 3) / 4) * 4
}

// Encode compresses a bottom-up, stride-padded pixel buffer.
//
// Rows are encoded in storage order and only the first width bytes of each
// row are read; padding is never encoded. Every row but the last ends with an
// end-of-line marker and the stream ends with an end-of-bitmap marker.
func Encode(pixels []byte, width, height int) ([]byte, error) {
	stride := Stride(width)
	if width < 0 || height < 0 || len(pixels) != stride*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(pixels), width, height)
	}

	out := make([]byte, 0, len(pixels)/2+2)
	literals := make([]byte, 0, maxCount)

	for y := range height {
		row := pixels[y*stride : y*stride+width]

		x := 0
		for x < width {
			value := row[x]

			// Measure the run, it never crosses the end of the row
			run := 1
			for run < maxCount && x+run < width && row[x+run] == value {
				run++
			}

			if run > 2 {
				out = flushLiterals(out, literals)
				literals = literals[:0]

				// Encoded mode
				out = append(out, byte(run), value)
				x += run
				continue
			}

			literals = append(literals, value)
			if len(literals) == maxCount {
				out = flushLiterals(out, literals)
				literals = literals[:0]
			}
			x++
		}

		out = flushLiterals(out, literals)
		literals = literals[:0]

		if y != height-1 {
			out = append(out, 0, endOfLine)
		}
	}

	return append(out, 0, endOfBitmap), nil
}

// Appends the pending literal bytes to out.
// Fewer than 3 bytes are cheaper as single-pixel runs than as an absolute packet.
func flushLiterals(out, literals []byte) []byte {
	switch {
	case len(literals) == 0:
		return out
	case len(literals) < 3:
		for _, v := range literals {
			out = append(out, 1, v)
		}
		return out
	}

	// Absolute mode (word aligned)
	out = append(out, 0, byte(len(literals)))
	out = append(out, literals...)
	if len(literals)%2 != 0 {
		out = append(out, 0)
	}
	return out
}

// Decode expands src into dst, a bottom-up buffer whose rows are Stride(width)
// bytes long.
//
// Decoding stops at the first end-of-bitmap marker or once the write cursor
// leaves dst. Pixels that would land past the end of dst are dropped. A stream
// that runs out before either happens returns ErrMalformedStream.
func Decode(dst, src []byte, width int) error {
	stride := Stride(width)
	if len(dst) == 0 {
		return nil
	}
	if stride == 0 || len(dst)%stride != 0 {
		return fmt.Errorf("%w: %d bytes with stride %d", ErrBufferSize, len(dst), stride)
	}

	pos := 0 // write cursor in dst
	rd := 0  // read cursor in src

	for pos < len(dst) {
		if rd+2 > len(src) {
			return fmt.Errorf("%w: stream ended at offset %d without end-of-bitmap", ErrMalformedStream, rd)
		}
		count, code := src[rd], src[rd+1]
		rd += 2

		// Encoded mode: count copies of code
		if count != 0 {
			for range int(count) {
				if pos < len(dst) {
					dst[pos] = code
				}
				pos++
			}
			continue
		}

		switch code {
		case endOfLine:
			if rem := pos % stride; rem != 0 {
				pos += stride - rem
			}

		case endOfBitmap:
			return nil

		case delta:
			if rd+2 > len(src) {
				return fmt.Errorf("%w: delta at offset %d is cut short", ErrMalformedStream, rd-2)
			}
			dx, dy := int(src[rd]), int(src[rd+1])
			rd += 2
			pos += dx + dy*stride

		default:
			// Absolute mode: code literal pixels, padded to an even length
			n := int(code)
			padded := n + n%2
			if rd+padded > len(src) {
				return fmt.Errorf("%w: absolute run of %d at offset %d is cut short", ErrMalformedStream, n, rd-2)
			}
			for _, v := range src[rd : rd+n] {
				if pos < len(dst) {
					dst[pos] = v
				}
				pos++
			}
			rd += n

			// Skip the pad byte, it is not a pixel
			if n%2 != 0 {
				rd++
			}
		}
	}

	return nil
}
