package systems

import (
	"testing"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/hex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnTower(t *testing.T, r *domain.Registry, at hex.Coord, rng int, damage float64, ticksToFire int) domain.EntityID {
	t.Helper()
	id := r.Create()
	require.NoError(t, r.Attach(id, domain.PositionAt(at)))
	require.NoError(t, r.Attach(id, domain.Shooter{
		Role:        domain.AttackerTower,
		Range:       rng,
		Damage:      damage,
		TicksToFire: ticksToFire,
	}))
	return id
}

func spawnTarget(t *testing.T, r *domain.Registry, at hex.Coord, hp int) domain.EntityID {
	t.Helper()
	id := r.Create()
	require.NoError(t, r.Attach(id, domain.PositionAt(at)))
	require.NoError(t, r.Attach(id, domain.FullHealth(hp)))
	return id
}

func TestFindTargets_NearestInRange(t *testing.T) {
	r := domain.NewRegistry()
	tower := spawnTower(t, r, hex.Origin, 2, 1, 1)

	spawnTarget(t, r, hex.New(3, 0), 10)
	mid := spawnTarget(t, r, hex.New(0, 2), 10)
	near := spawnTarget(t, r, hex.New(-1, 0), 10)

	got := FindTargets(r)

	require.Len(t, got, 1)
	assert.Equal(t, Engagement{Attacker: tower, Target: near, Distance: 1}, got[0])

	// Ближайшего убрали - берём следующего в радиусе
	r.Destroy(near)
	got = FindTargets(r)
	require.Len(t, got, 1)
	assert.Equal(t, mid, got[0].Target)
	assert.Equal(t, 2, got[0].Distance)
}

func TestFindTargets_TieBreakByLowestID(t *testing.T) {
	r := domain.NewRegistry()
	tower := spawnTower(t, r, hex.Origin, 3, 1, 1)

	first := spawnTarget(t, r, hex.New(0, 2), 5)
	spawnTarget(t, r, hex.New(2, 0), 5)
	spawnTarget(t, r, hex.New(-2, 2), 5)

	for i := 0; i < 3; i++ {
		got := FindTargets(r)
		require.Len(t, got, 1)
		assert.Equal(t, tower, got[0].Attacker)
		assert.Equal(t, first, got[0].Target)
	}
}

func TestFindTargets_IdleWhenNothingInRange(t *testing.T) {
	r := domain.NewRegistry()
	spawnTower(t, r, hex.Origin, 1, 1, 1)
	spawnTarget(t, r, hex.New(2, 0), 5)

	assert.Empty(t, FindTargets(r))

	// Радиус 0 - только своя клетка
	r2 := domain.NewRegistry()
	spawnTower(t, r2, hex.Origin, 0, 1, 1)
	under := spawnTarget(t, r2, hex.Origin, 5)
	got := FindTargets(r2)
	require.Len(t, got, 1)
	assert.Equal(t, under, got[0].Target)
}

func TestFindTargets_SkipsSelfAndAllies(t *testing.T) {
	r := domain.NewRegistry()

	// Юнит со своим оружием и здоровьем
	unit := r.Create()
	require.NoError(t, r.Attach(unit, domain.Position{}))
	require.NoError(t, r.Attach(unit, domain.FullHealth(5)))
	require.NoError(t, r.Attach(unit, domain.Shooter{Role: domain.AttackerUnit, Range: 3, Damage: 1, TicksToFire: 1}))
	require.NoError(t, r.Attach(unit, domain.Faction{Team: 1}))

	ally := spawnTarget(t, r, hex.New(1, 0), 5)
	require.NoError(t, r.Attach(ally, domain.Faction{Team: 1}))

	enemy := spawnTarget(t, r, hex.New(2, 0), 5)
	require.NoError(t, r.Attach(enemy, domain.Faction{Team: 2}))

	neutral := spawnTarget(t, r, hex.New(3, 0), 5)

	got := FindTargets(r)
	require.Len(t, got, 1)
	assert.Equal(t, enemy, got[0].Target)

	r.Destroy(enemy)
	got = FindTargets(r)
	require.Len(t, got, 1)
	assert.Equal(t, neutral, got[0].Target)
}

func TestFindTargets_NeverBeyondRange(t *testing.T) {
	r := domain.NewRegistry()

	// Несколько башен с разным радиусом и поле целей вокруг
	for i, rng := range []int{0, 1, 2, 3} {
		spawnTower(t, r, hex.New(i*3, -i), rng, 1, 1)
	}
	for _, c := range hex.Spiral(hex.New(2, 0), 5) {
		if (c.Q+c.R)%3 == 0 {
			spawnTarget(t, r, c, 1)
		}
	}

	got := FindTargets(r)
	require.NotEmpty(t, got)

	prev := domain.NilEntityID
	for _, e := range got {
		s, _ := r.Shooter(e.Attacker)
		a, _ := r.Position(e.Attacker)
		b, _ := r.Position(e.Target)
		assert.Equal(t, a.DistanceTo(b), e.Distance)
		assert.LessOrEqual(t, e.Distance, s.Range)
		assert.Greater(t, e.Attacker, prev, "engagements ordered by attacker")
		prev = e.Attacker
	}
}
