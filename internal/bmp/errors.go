package bmp

import (
	"errors"

	"github.com/anas-shakeel/bmprle/internal/rle"
)

// Errors returned while reading or writing a bitmap. ReadBitmap and Save wrap
// the specific error together with ErrReadFailed or ErrWriteFailed, so both
// can be matched with errors.Is.
var (
	ErrReadFailed  = errors.New("bmp: read failed")
	ErrWriteFailed = errors.New("bmp: write failed")

	ErrNotABitmap             = errors.New("invalid file: provided file is not a bitmap")
	ErrUnsupportedBitDepth    = errors.New("unsupported BMP format: only 1 to 8 bits per pixel are supported")
	ErrUnsupportedCompression = errors.New("unsupported BMP format: only uncompressed and RLE8 are supported")
	ErrInvalidDimensions      = errors.New("invalid bitmap: width and height must be greater than 0")
	ErrTruncatedData          = errors.New("invalid bitmap: file is truncated")
	ErrDataSize               = errors.New("invalid bitmap: pixel data size does not match dimensions")
	ErrIO                     = errors.New("bmp: i/o failure")

	// Alias so callers don't need to import the codec package
	ErrMalformedRLE = rle.ErrMalformedStream
)
