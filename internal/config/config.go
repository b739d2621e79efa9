// Package config loads detect-overlay settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/detect-overlay/internal/detection"
	"github.com/ironsheep/detect-overlay/internal/overlay"
)

// Environment variables read by Load.
const (
	EnvEndpoint      = "DETECT_ENDPOINT"
	EnvAPIKey        = "DETECT_API_KEY"
	EnvConfidence    = "DETECT_CONFIDENCE"
	EnvTimeout       = "DETECT_TIMEOUT"
	EnvLogLevel      = "DETECT_LOG_LEVEL"
	EnvColors        = "DETECT_COLORS"
	EnvFallbackColor = "DETECT_FALLBACK_COLOR"
)

// DefaultConfidence is the threshold hint sent when DETECT_CONFIDENCE is unset.
const DefaultConfidence = 20

// Config is the resolved runtime configuration.
type Config struct {
	Endpoint   string
	APIKey     string
	Confidence float64
	Timeout    time.Duration
	LogLevel   zapcore.Level
	Colors     overlay.ColorMap
}

// Load reads the configuration from the environment. Unset variables take
// their defaults; malformed values are errors.
//
// DETECT_ENDPOINT may be empty here. Requests fail with a configuration error
// until it is set.
func Load() (*Config, error) {
	cfg := &Config{
		Endpoint: getEnv(EnvEndpoint, ""),
		APIKey:   getEnv(EnvAPIKey, ""),
	}

	var err error
	if cfg.Confidence, err = strconv.ParseFloat(getEnv(EnvConfidence, strconv.Itoa(DefaultConfidence)), 64); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvConfidence, err)
	}
	if cfg.Confidence < 0 || cfg.Confidence > 100 {
		return nil, fmt.Errorf("invalid %s: %v outside 0-100", EnvConfidence, cfg.Confidence)
	}

	if cfg.Timeout, err = time.ParseDuration(getEnv(EnvTimeout, detection.DefaultTimeout.String())); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive", EnvTimeout)
	}

	if cfg.LogLevel, err = zapcore.ParseLevel(getEnv(EnvLogLevel, "info")); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}

	palette, err := parsePalette(os.Getenv(EnvColors))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvColors, err)
	}
	if cfg.Colors, err = overlay.NewColorMap(palette, getEnv(EnvFallbackColor, overlay.DefaultFallbackHex)); err != nil {
		return nil, fmt.Errorf("invalid color configuration: %w", err)
	}

	return cfg, nil
}

// Detection returns the per-request options for the detection client.
func (c *Config) Detection() detection.Config {
	return detection.Config{
		Endpoint:   c.Endpoint,
		APIKey:     c.APIKey,
		Confidence: c.Confidence,
	}
}

// Logger builds a console logger that writes to stderr at the configured
// level. Stdout is reserved for the protocol stream.
func (c *Config) Logger() (*zap.Logger, error) {
	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(c.LogLevel),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build()
}

// parsePalette merges "label=#RRGGBB,..." entries over the default palette.
func parsePalette(raw string) (map[string]string, error) {
	palette := overlay.DefaultPalette()
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, hex, ok := strings.Cut(entry, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("entry %q is not label=#RRGGBB", entry)
		}
		palette[label] = strings.TrimSpace(hex)
	}
	return palette, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
