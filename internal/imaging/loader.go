package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrInvalidImage is returned when submitted bytes cannot be decoded as a
// displayable image. Loader errors wrap it, so callers test with errors.Is.
var ErrInvalidImage = errors.New("invalid image")

// Payload is the network form of a submitted image: the standard base64
// encoding of the original file bytes, without any data-URI prefix.
type Payload string

// DecodedImage is an owned, decoded copy of a submitted image.
//
// The pixel buffer is the transient resource of a submission. The session that
// created it calls Release once a newer image supersedes it so repeated
// submissions do not keep every previous buffer alive.
type DecodedImage struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that accepted the input: "png", "jpeg", "gif",
	// "bmp", "tiff" or "webp".
	Format string `json:"format"`

	pix *image.RGBA
}

// Image returns the decoded pixels, or nil after Release.
func (d *DecodedImage) Image() *image.RGBA {
	return d.pix
}

// Release drops the pixel buffer. Calling it more than once is harmless.
func (d *DecodedImage) Release() {
	d.pix = nil
}

// Released reports whether Release has been called.
func (d *DecodedImage) Released() bool {
	return d.pix == nil
}

// Load decodes raw image bytes and prepares them for the detection boundary.
//
// Parameters:
//   - data: The complete contents of an image file. Supported formats are
//     PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns:
//   - *DecodedImage: An RGBA copy of the image with its pixel dimensions. EXIF
//     orientation is applied, so Width and Height are the displayed size.
//   - Payload: The base64 form of data, ready to be sent as a request body.
//   - error: Wraps ErrInvalidImage if data is empty or cannot be decoded.
//
// The returned image always has its origin at (0,0), whatever the bounds of
// the decoder's native result.
func Load(data []byte) (*DecodedImage, Payload, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: no image data", ErrInvalidImage)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	pix := clone.AsRGBA(img)
	// Pix[0] stays at Rect.Min, so shifting the rectangle rebases the image.
	pix.Rect = pix.Rect.Sub(pix.Rect.Min)
	bounds := pix.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, "", fmt.Errorf("%w: image has no pixels", ErrInvalidImage)
	}

	decoded := &DecodedImage{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
		pix:    pix,
	}
	return decoded, Payload(base64.StdEncoding.EncodeToString(data)), nil
}

// LoadFile reads an image file from disk and passes its contents to Load.
//
// A missing or unreadable file is reported as a plain I/O error, not as
// ErrInvalidImage.
func LoadFile(path string) (*DecodedImage, Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return Load(data)
}
