package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// encodeTestPNG returns the PNG encoding of a solid-color image.
func encodeTestPNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	return encodePNG(t, createInMemoryImage(width, height, c))
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	data := encodeTestPNG(t, 200, 150, color.RGBA{255, 128, 64, 255})

	img, payload, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if img.Width != 200 || img.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", img.Width, img.Height)
	}
	if img.Format != "png" {
		t.Errorf("Format: got %s, want png", img.Format)
	}
	if img.Image() == nil {
		t.Fatal("Load returned an image without pixels")
	}
	if got := img.Image().Bounds(); got != image.Rect(0, 0, 200, 150) {
		t.Errorf("bounds: got %v, want (0,0)-(200,150)", got)
	}

	raw, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if !bytes.Equal(raw, data) {
		t.Error("payload does not decode to the original file bytes")
	}
}

func TestLoad_PayloadHasNoDataURIPrefix(t *testing.T) {
	_, payload, err := Load(encodeTestPNG(t, 4, 4, color.White))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if bytes.HasPrefix([]byte(payload), []byte("data:")) {
		t.Errorf("payload starts with a data URI prefix: %.20s", payload)
	}
}

func TestLoad_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createInMemoryImage(64, 32, color.RGBA{0, 0, 255, 255}), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	img, _, err := Load(buf.Bytes())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width != 64 || img.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", img.Width, img.Height)
	}
	if img.Format != "jpeg" {
		t.Errorf("Format: got %s, want jpeg", img.Format)
	}
}

func TestLoad_PreservesPixels(t *testing.T) {
	img, _, err := Load(encodePNG(t, createPatternImage(100, 100)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		x, y    int
		wantHex string
	}{
		{25, 25, "#FF0000"},
		{75, 25, "#00FF00"},
		{25, 75, "#0000FF"},
		{75, 75, "#FFFFFF"},
	}
	for _, tt := range tests {
		got, err := SampleColor(img.Image(), tt.x, tt.y)
		if err != nil {
			t.Fatalf("SampleColor(%d,%d) failed: %v", tt.x, tt.y, err)
		}
		if got.Hex != tt.wantHex {
			t.Errorf("pixel (%d,%d): got %s, want %s", tt.x, tt.y, got.Hex, tt.wantHex)
		}
	}
}

func TestLoad_InvalidImage(t *testing.T) {
	valid := encodeTestPNG(t, 50, 50, color.Black)

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"text", []byte("not an image")},
		{"truncated png", valid[:len(valid)/2]},
		{"png header only", valid[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, payload, err := Load(tt.data)
			if err == nil {
				t.Fatal("Load should fail for undecodable data")
			}
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("error %v does not wrap ErrInvalidImage", err)
			}
			if img != nil || payload != "" {
				t.Error("Load returned partial results on failure")
			}
		})
	}
}

func TestDecodedImage_Release(t *testing.T) {
	img, _, err := Load(encodeTestPNG(t, 10, 10, color.White))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Released() {
		t.Fatal("fresh image reports Released")
	}

	img.Release()
	if !img.Released() || img.Image() != nil {
		t.Error("Release did not drop the pixel buffer")
	}

	// Second release should not panic
	img.Release()

	if img.Width != 10 || img.Height != 10 {
		t.Error("Release should keep the recorded dimensions")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.png")
	if err := os.WriteFile(path, encodeTestPNG(t, 30, 20, color.White), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	img, payload, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if img.Width != 30 || img.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", img.Width, img.Height)
	}
	if payload == "" {
		t.Error("LoadFile returned an empty payload")
	}
}

func TestLoadFile_NonExistent(t *testing.T) {
	_, _, err := LoadFile("/nonexistent/path/to/image.png")
	if err == nil {
		t.Fatal("LoadFile should fail for non-existent file")
	}
	if errors.Is(err, ErrInvalidImage) {
		t.Error("a missing file should not be reported as ErrInvalidImage")
	}
}
