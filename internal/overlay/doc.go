// Package overlay renders detection results on top of their source image.
//
// A Renderer takes a decoded image and the boundary's detections and paints a
// Surface: the image first, then one stroked box and one label per detection,
// in the order the boundary returned them. Box colors come from a ColorMap, an
// explicit label-to-color table with a fallback for unknown labels.
//
// Render also returns a summary string: the class labels sorted left to right
// by box center. The sort runs on a copy and never changes draw order.
//
// # Coordinate System
//
// Detections are center-anchored. BoxOrigin converts (X, Y, Width, Height) to
// the top-left corner (X - Width/2, Y - Height/2); BoxRect rounds that to whole
// pixels. Surface coordinates start at (0,0) in the top-left corner.
//
// # Determinism
//
// Boxes are filled with opaque axis-aligned strips and labels use the 7x13
// bitmap font from golang.org/x/image, which has no anti-aliasing. Identical
// inputs produce identical pixels.
package overlay
