package raster

import "fmt"

// DecodeError reports that no codec in the priority list could parse the
// supplied bytes. It is a hard failure: the request produces no record.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode failed: " + e.Reason
}

// DimensionError reports that an image failed sanity bounds even after
// downscaling was applied.
type DimensionError struct {
	Width, Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("image dimensions out of bounds: %dx%d", e.Width, e.Height)
}

// PayloadTooLargeError reports that the raw payload exceeded the pre-decode
// size ceiling. The guard runs before any decoding is attempted.
type PayloadTooLargeError struct {
	Size, Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d bytes (limit %d)", e.Size, e.Limit)
}
