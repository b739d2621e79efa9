package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// EncodedImage is an overlay serialized for transport to a client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG, optionally rescaled.
//
// A scale of 1 (or any non-positive value) keeps the original size. Other
// values resize with Lanczos resampling; each dimension is at least 1 pixel.
func EncodePNG(img image.Image, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot encode empty image")
	}

	out := img
	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(bounds.Dx())*scale), 1)
		newHeight := max(int(float64(bounds.Dy())*scale), 1)
		out = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &EncodedImage{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
