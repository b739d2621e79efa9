package overlay

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/ironsheep/detect-overlay/internal/detection"
)

// Summary lists the detected class labels in left-to-right reading order.
//
// Detections are ordered by ascending center X (ties keep boundary order) and
// their labels joined with single spaces. The ordering is done on a copy, so
// dets, and therefore draw order, are left untouched. An empty list yields "".
func Summary(dets []detection.Detection) string {
	if len(dets) == 0 {
		return ""
	}

	sorted := slices.Clone(dets)
	slices.SortStableFunc(sorted, func(a, b detection.Detection) int {
		return cmp.Compare(a.X, b.X)
	})

	labels := lo.Map(sorted, func(d detection.Detection, _ int) string {
		return d.Class
	})
	return strings.Join(labels, " ")
}
