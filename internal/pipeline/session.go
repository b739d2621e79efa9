package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/detect-overlay/internal/detection"
	"github.com/ironsheep/detect-overlay/internal/imaging"
	"github.com/ironsheep/detect-overlay/internal/overlay"
)

// ErrSuperseded is returned by Submit when a newer submission started before
// this one resolved. The result was discarded and nothing was rendered.
var ErrSuperseded = errors.New("submission superseded by a newer one")

// Detector sends an encoded image to the detection boundary.
// *detection.Client satisfies it.
type Detector interface {
	Detect(ctx context.Context, payload imaging.Payload, cfg detection.Config) ([]detection.Detection, error)
}

// State is a copy of a session's committed state.
type State struct {
	// SessionID identifies the session in logs.
	SessionID string `json:"session_id"`

	// Busy is true while the latest submission has not resolved.
	Busy bool `json:"busy"`

	// Pending is the generation of the latest submission started.
	Pending uint64 `json:"pending"`

	// Generation is the submission whose overlay is on the surface, or 0 if
	// nothing has been rendered yet.
	Generation uint64 `json:"generation"`

	// Summary is the left-to-right label summary of the rendered overlay.
	Summary string `json:"summary"`

	// Detections are the rendered detections in boundary order.
	Detections []detection.Detection `json:"detections"`

	// Width and Height are the rendered image's dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// LastError describes the most recent failed current submission. It is
	// cleared by the next successful render.
	LastError string `json:"last_error,omitempty"`
}

// Result is the outcome of a successful submission.
type Result struct {
	Generation uint64                `json:"generation"`
	Summary    string                `json:"summary"`
	Detections []detection.Detection `json:"detections"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`

	// Overlay is a private copy of the rendered surface.
	Overlay *image.RGBA `json:"-"`
}

// Session runs the load, detect and render pipeline for one user.
//
// Every Submit takes the next generation number. Only the submission holding
// the latest generation may change the session: results that arrive after a
// newer submission started are dropped, so the last submission always wins.
// Session is safe for concurrent use.
type Session struct {
	id       string
	detector Detector
	renderer *overlay.Renderer
	cfg      detection.Config
	logger   *zap.SugaredLogger

	latest atomic.Uint64

	mu      sync.Mutex
	surface *overlay.Surface
	image   *imaging.DecodedImage
	state   State
}

// NewSession creates a session that detects with detector using cfg and draws
// with renderer. A nil logger disables logging.
func NewSession(detector Detector, renderer *overlay.Renderer, cfg detection.Config, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		detector: detector,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger.With("session", id),
		surface:  overlay.NewSurface(),
		state:    State{SessionID: id},
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Latest returns the generation of the most recent submission.
func (s *Session) Latest() uint64 {
	return s.latest.Load()
}

// Submit runs the whole pipeline for one image file.
//
// Parameters:
//   - ctx: Bounds the detection request.
//   - data: The raw image file.
//
// Returns:
//   - *Result: The rendered outcome when this submission is still the latest.
//   - error: One of
//   - an error wrapping imaging.ErrInvalidImage; no request was sent
//   - *detection.NetworkError or *detection.ServiceError from the boundary
//   - ErrSuperseded, joined with the boundary error if there was one, when a
//     newer submission started first
//
// On any error the previously rendered overlay is left as it was.
func (s *Session) Submit(ctx context.Context, data []byte) (*Result, error) {
	gen := s.begin()
	log := s.logger.With("generation", gen)

	img, payload, err := imaging.Load(data)
	if err != nil {
		return nil, s.fail(log, gen, nil, err)
	}
	log.Debugw("image decoded", "width", img.Width, "height", img.Height, "format", img.Format)

	dets, err := s.detector.Detect(ctx, payload, s.cfg)
	if err != nil {
		return nil, s.fail(log, gen, img, err)
	}

	return s.commit(log, gen, img, dets)
}

// begin starts a new generation and marks the session busy.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.latest.Inc()
	s.state.Busy = true
	s.state.Pending = gen
	return gen
}

func (s *Session) fail(log *zap.SugaredLogger, gen uint64, img *imaging.DecodedImage, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img != nil {
		img.Release()
	}

	if gen != s.latest.Load() {
		log.Debugw("discarding failure of superseded submission", "error", err)
		return multierr.Combine(ErrSuperseded, err)
	}

	s.state.Busy = false
	s.state.LastError = err.Error()
	log.Warnw("submission failed", "error", err)
	return err
}

func (s *Session) commit(log *zap.SugaredLogger, gen uint64, img *imaging.DecodedImage, dets []detection.Detection) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.latest.Load() {
		img.Release()
		log.Debugw("discarding result of superseded submission", "latest", s.latest.Load())
		return nil, ErrSuperseded
	}

	summary := s.renderer.Render(s.surface, img.Image(), dets)

	if s.image != nil {
		s.image.Release()
	}
	s.image = img

	s.state = State{
		SessionID:  s.id,
		Busy:       false,
		Pending:    gen,
		Generation: gen,
		Summary:    summary,
		Detections: slices.Clone(dets),
		Width:      img.Width,
		Height:     img.Height,
	}

	log.Infow("overlay rendered", "detections", len(dets), "summary", summary)

	return &Result{
		Generation: gen,
		Summary:    summary,
		Detections: slices.Clone(dets),
		Width:      img.Width,
		Height:     img.Height,
		Overlay:    s.surface.Snapshot(),
	}, nil
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Detections = slices.Clone(s.state.Detections)
	return st
}

// Overlay returns a copy of the rendered overlay, or nil if nothing has been
// rendered yet.
func (s *Session) Overlay() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Generation == 0 {
		return nil
	}
	return s.surface.Snapshot()
}

// Current returns the session state together with a copy of the overlay it
// describes. The overlay is nil if nothing has been rendered yet.
func (s *Session) Current() (State, *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Detections = slices.Clone(s.state.Detections)
	if st.Generation == 0 {
		return st, nil
	}
	return st, s.surface.Snapshot()
}

// SaveOverlay writes the rendered overlay to path as PNG.
func (s *Session) SaveOverlay(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Generation == 0 {
		return fmt.Errorf("no overlay has been rendered")
	}
	return s.surface.Save(path)
}
