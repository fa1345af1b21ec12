package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(vs []View) []uint64 {
	out := make([]uint64, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestFindNearby(t *testing.T) {
	a := View{ID: 1, Latitude: 10, Longitude: 10}
	b := View{ID: 2, Latitude: 10.0001, Longitude: 10.0001}
	far := View{ID: 3, Latitude: 10.01, Longitude: 10.01}
	all := []View{a, b, far}

	assert.Equal(t, []uint64{1, 2}, ids(FindNearby(a, all)))
	assert.Equal(t, []uint64{1, 2}, ids(FindNearby(b, all)))
	assert.Equal(t, []uint64{3}, ids(FindNearby(far, all)))
}

func TestFindNearbyIsNotTransitive(t *testing.T) {
	a := View{ID: 1, Latitude: 0, Longitude: 0}
	b := View{ID: 2, Latitude: 0.00015, Longitude: 0}
	c := View{ID: 3, Latitude: 0.0003, Longitude: 0}
	all := []View{a, b, c}

	assert.Equal(t, []uint64{1, 2}, ids(FindNearby(a, all)))
	assert.Equal(t, []uint64{1, 2, 3}, ids(FindNearby(b, all)))
	assert.Equal(t, []uint64{2, 3}, ids(FindNearby(c, all)))
}

func TestFindNearbyIncludesReferenceMissingFromList(t *testing.T) {
	ref := View{ID: 9, Latitude: 5, Longitude: 5}
	got := FindNearby(ref, []View{{ID: 1, Latitude: 5.00001, Longitude: 5}})
	assert.Equal(t, []uint64{9, 1}, ids(got))
}

func TestFindNearbyNeedsBothAxes(t *testing.T) {
	a := View{ID: 1, Latitude: 0, Longitude: 0}
	b := View{ID: 2, Latitude: 0.0001, Longitude: 0.5}
	assert.Equal(t, []uint64{1}, ids(FindNearby(a, []View{a, b})))
}
