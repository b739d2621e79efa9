package config

import (
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/detect-overlay/internal/detection"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvEndpoint, EnvAPIKey, EnvConfidence, EnvTimeout, EnvLogLevel, EnvColors, EnvFallbackColor} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Endpoint != "" || cfg.APIKey != "" {
		t.Errorf("endpoint/key should be empty, got %q/%q", cfg.Endpoint, cfg.APIKey)
	}
	if cfg.Confidence != DefaultConfidence {
		t.Errorf("Confidence: got %v, want %v", cfg.Confidence, DefaultConfidence)
	}
	if cfg.Timeout != detection.DefaultTimeout {
		t.Errorf("Timeout: got %v, want %v", cfg.Timeout, detection.DefaultTimeout)
	}
	if cfg.LogLevel != zapcore.InfoLevel {
		t.Errorf("LogLevel: got %v, want info", cfg.LogLevel)
	}
	if got := cfg.Colors.Resolve("5"); got != (color.RGBA{0x00, 0xFF, 0x7F, 255}) {
		t.Errorf("default color for 5: got %v", got)
	}
	if got := cfg.Colors.Resolve("cat"); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("default fallback: got %v", got)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEndpoint, "https://detect.example.com/meters/3")
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvConfidence, "42.5")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvColors, " cat=#00FF00 , 5=#000080,")
	t.Setenv(EnvFallbackColor, "#808080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := detection.Config{
		Endpoint:   "https://detect.example.com/meters/3",
		APIKey:     "secret",
		Confidence: 42.5,
	}
	if diff := cmp.Diff(want, cfg.Detection()); diff != "" {
		t.Errorf("Detection() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout: got %v, want 5s", cfg.Timeout)
	}
	if cfg.LogLevel != zapcore.DebugLevel {
		t.Errorf("LogLevel: got %v, want debug", cfg.LogLevel)
	}

	colors := []struct {
		label string
		want  color.RGBA
	}{
		{"cat", color.RGBA{0, 255, 0, 255}},
		{"5", color.RGBA{0, 0, 128, 255}},
		{"1", color.RGBA{0xFF, 0x7F, 0x00, 255}},
		{"dog", color.RGBA{128, 128, 128, 255}},
	}
	for _, c := range colors {
		if got := cfg.Colors.Resolve(c.label); got != c.want {
			t.Errorf("Resolve(%q) = %v, want %v", c.label, got, c.want)
		}
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"confidence not a number", EnvConfidence, "high"},
		{"confidence negative", EnvConfidence, "-1"},
		{"confidence above 100", EnvConfidence, "101"},
		{"timeout not a duration", EnvTimeout, "30"},
		{"timeout zero", EnvTimeout, "0s"},
		{"log level unknown", EnvLogLevel, "verbose"},
		{"color entry without label", EnvColors, "=#FF0000"},
		{"color entry without equals", EnvColors, "cat"},
		{"color not hex", EnvColors, "cat=green"},
		{"fallback not hex", EnvFallbackColor, "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load should fail for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	cfg := &Config{LogLevel: zapcore.WarnLevel}
	logger, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger failed: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}
