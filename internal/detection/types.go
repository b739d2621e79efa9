package detection

import (
	"fmt"
	"net/url"
)

// Detection is one object-recognition result returned by the boundary.
//
// The box is center-anchored: (X, Y) is the middle of the box, not its
// top-left corner. Values are kept exactly as the boundary sent them.
type Detection struct {
	// Class is the predicted class label, e.g. "5" or "meter".
	Class string `json:"class"`

	// X is the horizontal center of the box in image pixels.
	X float64 `json:"x"`

	// Y is the vertical center of the box in image pixels.
	Y float64 `json:"y"`

	// Width is the box width in pixels (>= 0).
	Width float64 `json:"width"`

	// Height is the box height in pixels (>= 0).
	Height float64 `json:"height"`

	// Confidence is the boundary's score for this prediction.
	Confidence float64 `json:"confidence"`

	// ClassID is the numeric class index, when the boundary provides one.
	ClassID *int `json:"class_id,omitempty"`

	// DetectionID is the boundary's identifier for this prediction.
	DetectionID string `json:"detection_id,omitempty"`
}

// ImageSize is the image size the boundary reports having processed.
type ImageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Response is the decoded body of a successful detection request.
type Response struct {
	Predictions []Detection `json:"predictions"`
	Image       *ImageSize  `json:"image,omitempty"`
	Time        float64     `json:"time,omitempty"`
	InferenceID string      `json:"inference_id,omitempty"`
}

// Config holds the options sent with every detection request.
type Config struct {
	// Endpoint is the absolute URL of the detection model.
	Endpoint string `json:"endpoint"`

	// APIKey is passed to the boundary as the api_key query parameter.
	APIKey string `json:"-"`

	// Confidence is the 0-100 threshold hint passed as the confidence query
	// parameter. The boundary applies it; the client never re-filters.
	Confidence float64 `json:"confidence"`
}

// Validate checks that the endpoint is an absolute http(s) URL and the
// confidence threshold is within 0-100.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("detection endpoint is not configured")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid detection endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid detection endpoint %q: must be an absolute http(s) URL", c.Endpoint)
	}
	if c.Confidence < 0 || c.Confidence > 100 {
		return fmt.Errorf("confidence threshold %v outside 0-100", c.Confidence)
	}
	return nil
}
