package overlay

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
)

// Surface is the drawing target of a Renderer.
//
// Its size follows whatever image was last rendered onto it. A Surface is not
// safe for concurrent use; the pipeline serializes renders per session.
type Surface struct {
	img *image.RGBA
}

// NewSurface returns an empty 0x0 surface.
func NewSurface() *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

// Reset sizes the surface to exactly width x height and clears every pixel to
// transparent. The buffer is reused when the size is unchanged.
func (s *Surface) Reset(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if s.img == nil || s.img.Rect.Dx() != width || s.img.Rect.Dy() != height {
		s.img = image.NewRGBA(image.Rect(0, 0, width, height))
		return
	}
	draw.Draw(s.img, s.img.Rect, image.Transparent, image.Point{}, draw.Src)
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Image returns the live pixel buffer. It is overwritten by the next render.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Snapshot returns an independent copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	return clone.AsRGBA(s.img)
}

// Save writes the current pixels to path as PNG.
func (s *Surface) Save(path string) error {
	if s.Width() == 0 || s.Height() == 0 {
		return fmt.Errorf("surface is empty")
	}
	if err := imgio.Save(path, s.img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}
