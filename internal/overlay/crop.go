package overlay

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/detect-overlay/internal/detection"
)

// DefaultCropMargin is the padding kept around a detection box by
// DetectionRegion.
const DefaultCropMargin = 4

// Crop extracts region r from img and encodes it like EncodePNG.
func Crop(img image.Image, r image.Rectangle, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()

	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return EncodePNG(imaging.Crop(img, r), scale)
}

// DetectionRegion returns the drawn box of d grown by margin on every side and
// clipped to bounds. The label, drawn outside the box, is not included.
func DetectionRegion(d detection.Detection, margin int, bounds image.Rectangle) (image.Rectangle, error) {
	r := BoxRect(d).Inset(-margin).Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("detection %q lies outside the image", d.Class)
	}
	return r, nil
}
