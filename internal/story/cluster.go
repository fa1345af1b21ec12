package story

import "math"

// ClusterThreshold is the per-axis distance in degrees (about 20m) under which
// two stories share a map popup.
const ClusterThreshold = 0.0002

// FindNearby returns every story in all whose latitude and longitude are both
// within ClusterThreshold of ref. The grouping is relative to ref only; it is
// not transitive across the list. ref itself is always part of the result.
func FindNearby(ref View, all []View) []View {
	out := make([]View, 0, 4)
	self := false
	for _, s := range all {
		if math.Abs(s.Latitude-ref.Latitude) < ClusterThreshold &&
			math.Abs(s.Longitude-ref.Longitude) < ClusterThreshold {
			out = append(out, s)
			if s.ID == ref.ID {
				self = true
			}
		}
	}
	if !self {
		out = append([]View{ref}, out...)
	}
	return out
}
