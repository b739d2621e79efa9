package overlay

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/detect-overlay/internal/detection"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		dets []detection.Detection
		want string
	}{
		{"nil", nil, ""},
		{"empty", []detection.Detection{}, ""},
		{"single", []detection.Detection{{Class: "7", X: 3}}, "7"},
		{"scenario", scenarioDetections(), "1 5"},
		{
			"already sorted",
			[]detection.Detection{{Class: "a", X: 1}, {Class: "b", X: 2}, {Class: "c", X: 3}},
			"a b c",
		},
		{
			"reverse",
			[]detection.Detection{{Class: "3", X: 300}, {Class: "2", X: 200}, {Class: "1", X: 100}},
			"1 2 3",
		},
		{
			"ties keep boundary order",
			[]detection.Detection{{Class: "b", X: 10}, {Class: "a", X: 10}, {Class: "c", X: 5}},
			"c b a",
		},
		{
			"sorted by center not left edge",
			// "wide" starts further left (x=0) but its center is right of "narrow"
			[]detection.Detection{{Class: "wide", X: 60, Width: 120}, {Class: "narrow", X: 20, Width: 2}},
			"narrow wide",
		},
		{
			"fractional centers",
			[]detection.Detection{{Class: "4", X: 10.75}, {Class: "2", X: 10.5}},
			"2 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.dets); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary_DoesNotMutateInput(t *testing.T) {
	dets := []detection.Detection{
		{Class: "9", X: 90},
		{Class: "0", X: 0},
		{Class: "5", X: 50},
	}
	want := []detection.Detection{
		{Class: "9", X: 90},
		{Class: "0", X: 0},
		{Class: "5", X: 50},
	}

	if got := Summary(dets); got != "0 5 9" {
		t.Errorf("Summary() = %q, want %q", got, "0 5 9")
	}
	if diff := cmp.Diff(want, dets); diff != "" {
		t.Errorf("Summary reordered its input (-want +got):\n%s", diff)
	}
}
