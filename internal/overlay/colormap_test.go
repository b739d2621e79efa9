package overlay

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultColorMap(t *testing.T) {
	m := DefaultColorMap()

	tests := []struct {
		label string
		want  color.RGBA
	}{
		{"0", color.RGBA{0xFF, 0x00, 0x00, 255}},
		{"1", color.RGBA{0xFF, 0x7F, 0x00, 255}},
		{"2", color.RGBA{0xFF, 0xFF, 0x00, 255}},
		{"3", color.RGBA{0x7F, 0xFF, 0x00, 255}},
		{"4", color.RGBA{0x00, 0xFF, 0x00, 255}},
		{"5", color.RGBA{0x00, 0xFF, 0x7F, 255}},
		{"6", color.RGBA{0x00, 0xFF, 0xFF, 255}},
		{"7", color.RGBA{0x00, 0x7F, 0xFF, 255}},
		{"8", color.RGBA{0x00, 0x00, 0xFF, 255}},
		{"9", color.RGBA{0x7F, 0x00, 0xFF, 255}},
		{"10", color.RGBA{0xFF, 0x00, 0x00, 255}},
		{"", color.RGBA{0xFF, 0x00, 0x00, 255}},
		{"cat", color.RGBA{0xFF, 0x00, 0x00, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := m.Resolve(tt.label); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestDefaultColorMap_Labels(t *testing.T) {
	want := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	if diff := cmp.Diff(want, DefaultColorMap().Labels()); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPalette_IsCopy(t *testing.T) {
	p := DefaultPalette()
	p["0"] = "#000000"

	if got := DefaultColorMap().Resolve("0"); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("modifying DefaultPalette changed the default map: %v", got)
	}
	if DefaultPalette()["0"] != "#FF0000" {
		t.Error("DefaultPalette returned shared state")
	}
}

func TestNewColorMap(t *testing.T) {
	m, err := NewColorMap(map[string]string{"cat": "#00ff00", "dog": "#F0F"}, "#101010")
	if err != nil {
		t.Fatalf("NewColorMap failed: %v", err)
	}

	if got := m.Resolve("cat"); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("cat: got %v", got)
	}
	if got := m.Resolve("dog"); got != (color.RGBA{255, 0, 255, 255}) {
		t.Errorf("dog: got %v", got)
	}
	if got := m.Resolve("bird"); got != (color.RGBA{16, 16, 16, 255}) {
		t.Errorf("bird: got %v, want fallback", got)
	}
	if m.Fallback() != (color.RGBA{16, 16, 16, 255}) {
		t.Errorf("Fallback: got %v", m.Fallback())
	}
}

func TestNewColorMap_Empty(t *testing.T) {
	m, err := NewColorMap(nil, DefaultFallbackHex)
	if err != nil {
		t.Fatalf("NewColorMap failed: %v", err)
	}
	if len(m.Labels()) != 0 {
		t.Errorf("expected no labels, got %v", m.Labels())
	}
	if m.Resolve("anything") != (color.RGBA{255, 0, 0, 255}) {
		t.Error("empty map should resolve everything to the fallback")
	}
}

func TestNewColorMap_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		palette  map[string]string
		fallback string
	}{
		{"bad fallback", nil, "red"},
		{"empty fallback", nil, ""},
		{"missing hash", map[string]string{"a": "FF0000"}, "#FF0000"},
		{"not hex", map[string]string{"a": "#GGGGGG"}, "#FF0000"},
		{"too long", map[string]string{"a": "#FF000000"}, "#FF0000"},
		{"too short", map[string]string{"a": "#FF"}, "#FF0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewColorMap(tt.palette, tt.fallback); err == nil {
				t.Error("NewColorMap should fail")
			}
		})
	}
}
