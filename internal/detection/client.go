package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/detect-overlay/internal/imaging"
)

// maxBodyBytes caps how much of a response body is kept for error
// diagnostics.
const maxBodyBytes = 64 << 10

// DefaultTimeout bounds a single detection request when the caller does not
// supply its own HTTP client.
const DefaultTimeout = 30 * time.Second

// Client sends image payloads to the remote detection boundary.
//
// A Client is safe for concurrent use. It performs exactly one HTTP attempt
// per call; retry policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a detection client.
//
// Parameters:
//   - httpClient: The HTTP client used for requests. If nil, a client with
//     DefaultTimeout is used.
//   - logger: Destination for request diagnostics. If nil, logging is disabled.
func NewClient(httpClient *http.Client, logger *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
	}
}

// Detect sends payload to the boundary and returns its predictions in the
// order the boundary produced them.
//
// Parameters:
//   - ctx: Bounds the request. Cancellation surfaces as a *NetworkError.
//   - payload: Base64 image data from imaging.Load, sent as the raw body.
//   - cfg: Endpoint, API key and confidence threshold for this request.
//
// Returns:
//   - []Detection: The predictions, never reordered or filtered. A response
//     without predictions yields an empty, non-nil slice.
//   - error: An invalid cfg, a *NetworkError when no response arrived, or a
//     *ServiceError for non-2xx statuses and undecodable 2xx bodies.
func (c *Client) Detect(ctx context.Context, payload imaging.Payload, cfg Config) ([]Detection, error) {
	resp, err := c.DetectResponse(ctx, payload, cfg)
	if err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

// DetectResponse is like Detect but returns the whole decoded response,
// including the boundary's image size and timing metadata.
func (c *Client) DetectResponse(ctx context.Context, payload imaging.Payload, cfg Config) (*Response, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	target, err := requestURL(cfg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("detection request failed", "endpoint", cfg.Endpoint, "error", err)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
		}
		c.logger.Debugw("detection service error",
			"endpoint", cfg.Endpoint,
			"status", resp.StatusCode,
			"elapsed", time.Since(start))
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Successful bodies are decoded in full; only their head is kept for
	// diagnostics.
	head := &headBuffer{limit: maxBodyBytes}
	body := io.TeeReader(resp.Body, head)

	var result Response
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		if !isDecodeError(err) {
			return nil, &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
		}
		io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: head.String(), Err: err}
	}
	if result.Predictions == nil {
		result.Predictions = []Detection{}
	}

	c.logger.Debugw("detection response",
		"endpoint", cfg.Endpoint,
		"status", resp.StatusCode,
		"predictions", len(result.Predictions),
		"elapsed", time.Since(start))

	return &result, nil
}

// requestURL appends the api_key and confidence query parameters to the
// endpoint, keeping any parameters already present.
func requestURL(cfg Config) (string, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid detection endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api_key", cfg.APIKey)
	q.Set("confidence", strconv.FormatFloat(cfg.Confidence, 'f', -1, 64))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// isDecodeError reports whether err came from the body's content rather than
// from reading it.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// headBuffer keeps the first limit bytes written to it and discards the rest.
type headBuffer struct {
	bytes.Buffer
	limit int
}

func (b *headBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		b.Buffer.Write(p[:min(room, len(p))])
	}
	return len(p), nil
}
