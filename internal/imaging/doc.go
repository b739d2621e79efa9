// Package imaging turns submitted image files into decoded pixel buffers and
// network payloads.
//
// Load is the single entry point of the pipeline's first stage. It decodes the
// bytes far enough to know the image's pixel size (rendering needs a concrete
// canvas) and produces the base64 payload the detection boundary expects. The
// decoded buffer is a transient resource: the session owning it calls Release
// when a newer submission replaces it.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Decoded images are always rebased so that their bounds start at (0,0).
//
// # Supported Formats
//
// PNG, JPEG and GIF use the standard library decoders. BMP, TIFF and WebP come
// from golang.org/x/image. EXIF orientation in JPEG files is applied during
// decoding, so reported dimensions match what a viewer displays.
//
// # Color Sampling
//
// SampleColor reads one pixel of any image, typically a rendered overlay, and
// reports it as hex, RGB(A) and HSL.
//
// # Error Handling
//
// Inputs that cannot be decoded are reported with an error wrapping
// ErrInvalidImage. The pipeline checks for it with errors.Is and aborts before
// any network call is made.
package imaging
