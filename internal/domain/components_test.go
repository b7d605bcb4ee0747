package domain

import (
	"math"
	"testing"

	"hexdefense-server/pkg/hex"

	"github.com/stretchr/testify/assert"
)

func TestComponents_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Component
		wantErr bool
	}{
		{"move ok", Move{TicksPassed: 2, TicksToMove: 2}, false},
		{"move zero cadence", Move{TicksToMove: 0}, true},
		{"move counter overflow", Move{TicksPassed: 3, TicksToMove: 2}, true},
		{"move negative counter", Move{TicksPassed: -1, TicksToMove: 2}, true},
		{"shooter ok", Shooter{Range: 0, Damage: 0, TicksToFire: 1}, false},
		{"shooter zero cooldown", Shooter{Range: 1, TicksToFire: 0}, true},
		{"shooter negative damage", Shooter{Range: 1, Damage: -1, TicksToFire: 1}, true},
		{"shooter nan damage", Shooter{Range: 1, Damage: math.NaN(), TicksToFire: 1}, true},
		{"shooter infinite damage", Shooter{Range: 1, Damage: math.Inf(1), TicksToFire: 1}, true},
		{"shooter negative infinite damage", Shooter{Range: 1, Damage: math.Inf(-1), TicksToFire: 1}, true},
		{"shooter negative range", Shooter{Range: -1, TicksToFire: 1}, true},
		{"shooter counter overflow", Shooter{TicksToFire: 1, TicksPassed: 2}, true},
		{"health ok", Health{Current: 0, Max: 3}, false},
		{"health negative", Health{Current: -1, Max: 3}, true},
		{"health over max", Health{Current: 4, Max: 3}, true},
		{"path ok", Path{Hexes: []hex.Coord{hex.Origin}, Index: 1}, false},
		{"path index out of range", Path{Index: 1}, true},
		{"position", Position{X: -5, Y: 7}, false},
		{"goal", Goal{Target: hex.New(1, 1)}, false},
		{"faction", Faction{Team: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidComponent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPosition_Distance(t *testing.T) {
	a := PositionAt(hex.New(0, 0))
	b := Position{X: 2, Y: 0}

	assert.Equal(t, 2, a.DistanceTo(b))
	assert.Equal(t, hex.New(2, 0), b.Coord())
}

func TestPath_Next(t *testing.T) {
	p := Path{Hexes: []hex.Coord{hex.New(1, 0)}}

	next, ok := p.Next()
	assert.True(t, ok)
	assert.Equal(t, hex.New(1, 0), next)
	assert.False(t, p.Done())

	p.Index++
	_, ok = p.Next()
	assert.False(t, ok)
	assert.True(t, p.Done())
}

func TestComponentSet(t *testing.T) {
	s := NewComponentSet(KindPosition, KindShooter)

	assert.True(t, s.Has(KindShooter))
	assert.False(t, s.Has(KindHealth))
	assert.True(t, s.Contains(NewComponentSet(KindPosition)))
	assert.False(t, s.Contains(SetTarget))
	assert.Equal(t, "position|shooter", s.String())
	assert.Equal(t, "{}", ComponentSet(0).String())
	assert.Equal(t, "tower", AttackerTower.String())
	assert.Equal(t, "unit", AttackerUnit.String())
}

func TestHealth_IsDead(t *testing.T) {
	assert.False(t, FullHealth(3).IsDead())
	assert.True(t, Health{Current: 0, Max: 3}.IsDead())
}
