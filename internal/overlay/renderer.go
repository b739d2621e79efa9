package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/detect-overlay/internal/detection"
)

const (
	// DefaultLineWidth is the box stroke width in pixels.
	DefaultLineWidth = 2

	labelPadX = 3 // horizontal padding on each side of the label text
	labelPadY = 4 // total vertical padding of the label background
	labelLift = 5 // distance from the box top edge up to the text baseline
)

var (
	labelTextColor       = color.RGBA{255, 255, 255, 255}
	labelBackgroundColor = color.RGBA{0, 0, 0, 255}
)

// Renderer paints a source image and its detections onto a Surface.
//
// A Renderer holds no per-render state and may be shared; the Surface it draws
// on may not.
type Renderer struct {
	colors    ColorMap
	face      font.Face
	lineWidth int
}

// NewRenderer creates a renderer that colors boxes with colors and writes
// labels in the 7x13 bitmap font.
func NewRenderer(colors ColorMap) *Renderer {
	return &Renderer{
		colors:    colors,
		face:      basicfont.Face7x13,
		lineWidth: DefaultLineWidth,
	}
}

// Colors returns the renderer's color map.
func (r *Renderer) Colors() ColorMap {
	return r.colors
}

// Render draws img and the annotated detections onto s and returns the
// left-to-right label summary.
//
// Parameters:
//   - s: The target surface. It is resized to img's dimensions and cleared
//     before anything is drawn, so nothing from a previous render survives.
//   - img: The source image. It fills the surface exactly.
//   - dets: Detections in boundary order. Boxes are drawn in this order, so
//     later labels overlap earlier ones. The slice is not modified.
//
// Returns the Summary of dets.
//
// # Box Geometry
//
// Detections are center-anchored. The box's top-left corner is
// (X - Width/2, Y - Height/2), rounded to the nearest pixel, and the stroke is
// drawn inward from the box edges.
//
// # Labels
//
// Each box gets its class label in white on an opaque black background that
// sits directly above the box's top edge. When that would place the background
// above the first image row, the label is drawn inside the box instead,
// anchored at the box's top-left corner. An inside label covers that corner's
// stroke and may extend past a box smaller than the label itself.
//
// Rendering is deterministic: the same image and detections always yield the
// same pixels.
func (r *Renderer) Render(s *Surface, img image.Image, dets []detection.Detection) string {
	src := img.Bounds()
	s.Reset(src.Dx(), src.Dy())
	dst := s.Image()

	draw.Draw(dst, dst.Rect, img, src.Min, draw.Src)

	for _, d := range dets {
		box := BoxRect(d)
		strokeRect(dst, box, r.colors.Resolve(d.Class), r.lineWidth)
		r.drawLabel(dst, box, d.Class)
	}

	return Summary(dets)
}

// BoxOrigin converts a center-anchored detection to its top-left corner.
func BoxOrigin(d detection.Detection) (x, y float64) {
	return d.X - d.Width/2, d.Y - d.Height/2
}

// BoxRect returns the pixel rectangle covered by a detection's box.
func BoxRect(d detection.Detection) image.Rectangle {
	x, y := BoxOrigin(d)
	return image.Rect(
		roundPixel(x),
		roundPixel(y),
		roundPixel(x+d.Width),
		roundPixel(y+d.Height),
	)
}

func roundPixel(v float64) int {
	return int(math.Round(v))
}

// strokeRect outlines r with width-pixel lines inside its edges, clipped to
// dst.
func strokeRect(dst *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	if r.Empty() || width <= 0 {
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), // top
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), // left
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		fillRect(dst, e.Intersect(r), c)
	}
}

// fillRect paints r, clipped to dst, with an opaque color.
func fillRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// labelLayout returns the background rectangle and text origin for a label on
// box.
func (r *Renderer) labelLayout(box image.Rectangle, text string) (image.Rectangle, image.Point) {
	textWidth := font.MeasureString(r.face, text).Ceil()
	textHeight := r.face.Metrics().Height.Ceil()

	top := box.Min.Y - textHeight - labelLift
	if top < 0 {
		top = max(box.Min.Y, 0)
	}

	bg := image.Rect(box.Min.X, top, box.Min.X+textWidth+2*labelPadX, top+textHeight+labelPadY)
	return bg, image.Pt(bg.Min.X+labelPadX, top+textHeight)
}

func (r *Renderer) drawLabel(dst *image.RGBA, box image.Rectangle, text string) {
	bg, dot := r.labelLayout(box, text)
	fillRect(dst, bg, labelBackgroundColor)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelTextColor),
		Face: r.face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
}
