package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want int
	}{
		{"same hex", New(0, 0), New(0, 0), 0},
		{"east neighbour", New(0, 0), New(1, 0), 1},
		{"two steps east", New(0, 0), New(2, 0), 2},
		{"diagonal axis", New(0, 0), New(2, -2), 2},
		{"mixed", New(1, -3), New(-2, 1), 4},
		{"negative quadrant", New(-3, -3), New(0, 0), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistance_SymmetricAndZeroOnSelf(t *testing.T) {
	points := Spiral(Origin, 4)
	for _, a := range points {
		assert.Zero(t, Distance(a, a), "distance to self for %s", a)
		for _, b := range points {
			d := Distance(a, b)
			assert.Equal(t, d, Distance(b, a), "symmetry for %s %s", a, b)
			assert.GreaterOrEqual(t, d, 0)
		}
	}
}

func TestNeighbors_OrderIsClockwiseFromEast(t *testing.T) {
	got := Neighbors(New(2, -1))

	want := [6]Coord{
		New(3, -1), // E
		New(2, 0),  // SE
		New(1, 0),  // SW
		New(1, -1), // W
		New(2, -2), // NW
		New(3, -2), // NE
	}
	assert.Equal(t, want, got)

	for _, n := range got {
		assert.Equal(t, 1, Distance(New(2, -1), n))
	}
}

func TestAddSubScale(t *testing.T) {
	a := New(3, -1)
	b := New(-1, 2)

	assert.Equal(t, New(2, 1), Add(a, b))
	assert.Equal(t, New(4, -3), Sub(a, b))
	assert.Equal(t, New(9, -3), Scale(a, 3))
	assert.Equal(t, -2, a.S())
}

func TestDirection_Wraps(t *testing.T) {
	assert.Equal(t, Direction(0), Direction(6))
	assert.Equal(t, Direction(5), Direction(-1))
}

func TestRingAndSpiral(t *testing.T) {
	center := New(1, 1)

	require.Equal(t, []Coord{center}, Ring(center, 0))

	for radius := 1; radius <= 3; radius++ {
		ring := Ring(center, radius)
		require.Len(t, ring, 6*radius)

		seen := make(map[Coord]bool)
		for _, c := range ring {
			assert.Equal(t, radius, Distance(center, c))
			assert.False(t, seen[c], "duplicate %s", c)
			seen[c] = true
		}
	}

	// 1 + 6 + 12 = 19
	spiral := Spiral(center, 2)
	assert.Len(t, spiral, 19)
	assert.Equal(t, center, spiral[0])
}

func TestCoord_String(t *testing.T) {
	assert.Equal(t, "(-1,2)", New(-1, 2).String())
}
