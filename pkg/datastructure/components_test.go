package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
one-way streets only:

	0 --> 1 --> 2 <--> 3
	^     |
	|     v
	 '--- 4          5 (isolated)
*/
func TestComponents(t *testing.T) {
	b := NewNetworkBuilder()
	for i := 0; i < 6; i++ {
		b.AddIntersection(NewCoordinate(0, float64(i)*0.001), "")
	}
	street := b.AddStreet("Ring Road")
	for _, e := range [][2]int32{{0, 1}, {1, 2}, {1, 4}, {2, 3}, {3, 2}, {4, 0}} {
		b.AddSegment(SegmentInfo{StreetID: street, From: e[0], To: e[1], SpeedLimit: 30, OneWay: true})
	}
	rn, err := b.Build()
	require.NoError(t, err)

	c := NewComponents(rn)
	require.Equal(t, 3, c.Count())
	assert.Equal(t, c.ComponentOf(0), c.ComponentOf(1))
	assert.Equal(t, c.ComponentOf(0), c.ComponentOf(4))
	assert.Equal(t, c.ComponentOf(2), c.ComponentOf(3))
	assert.NotEqual(t, c.ComponentOf(0), c.ComponentOf(2))
	assert.Equal(t, int32(3), c.Size(c.Largest()))
	assert.Equal(t, c.ComponentOf(0), c.Largest())

	assert.True(t, c.CanReach(0, 3))
	assert.True(t, c.CanReach(4, 2))
	assert.True(t, c.CanReach(3, 2))
	assert.False(t, c.CanReach(2, 0))
	assert.False(t, c.CanReach(0, 5))
	assert.False(t, c.CanReach(5, 0))
	assert.True(t, c.CanReach(5, 5))
}
